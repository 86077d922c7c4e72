package client

import (
	"net/url"
	"strings"

	"github.com/voidshard/slipway/pkg/api/http/common"
	"github.com/voidshard/slipway/pkg/lineage"
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

type Client struct {
	url *url.URL
}

func New(address string) (*Client, error) {
	u, err := url.Parse(address)
	return &Client{url: u}, err
}

func (c *Client) Jobs(q *structs.Query) ([]*structs.Job, error) {
	addr := c.addr(common.API_JOBS)
	setQueryString(addr, q)
	var out []*structs.Job
	return out, genericGet(addr, &out)
}

func (c *Client) Submit(spec *structs.JobSpec, rc *slurm.RenderContext, projectPath string) (*structs.Job, error) {
	addr := c.addr(common.API_JOBS)
	var out structs.Job
	in := &common.SubmitRequest{Spec: spec, Context: rc, ProjectPath: projectPath}
	return &out, genericPost(addr, in, &out)
}

func (c *Client) Preview(spec *structs.JobSpec, rc *slurm.RenderContext, projectPath string) (string, error) {
	addr := c.addr(common.API_PREVIEW)
	var out common.PreviewResponse
	in := &common.SubmitRequest{Spec: spec, Context: rc, ProjectPath: projectPath}
	return out.Script, genericPost(addr, in, &out)
}

func (c *Client) Archive(ids []string) (int64, error) {
	addr := c.addr(common.API_ARCHIVE)
	var out common.UpdateResponse
	return out.Updated, genericPatch(addr, &common.ArchiveRequest{IDs: ids}, &out)
}

func (c *Client) Unarchive(ids []string) (int64, error) {
	addr := c.addr(common.API_UNARCHIVE)
	var out common.UpdateResponse
	return out.Updated, genericPatch(addr, &common.ArchiveRequest{IDs: ids}, &out)
}

func (c *Client) Logs(id string) (string, error) {
	addr := c.addr(jobPath(common.API_JOB_LOGS, id))
	var out common.LogsResponse
	return out.Logs, genericGet(addr, &out)
}

func (c *Client) RefreshStatus(id string) (*structs.Job, error) {
	addr := c.addr(jobPath(common.API_JOB_REFRESH, id))
	var out structs.Job
	return &out, genericPost(addr, nil, &out)
}

func (c *Client) Cancel(id string) (*structs.Job, error) {
	addr := c.addr(jobPath(common.API_JOB_CANCEL, id))
	var out structs.Job
	return &out, genericPatch(addr, nil, &out)
}

func (c *Client) Lineage(q *structs.Query) (*lineage.Graph, error) {
	addr := c.addr(common.API_LINEAGE)
	setQueryString(addr, q)
	var out lineage.Graph
	return &out, genericGet(addr, &out)
}

func (c *Client) Availability(host string) (*structs.ResourceSnapshot, error) {
	addr := c.addr(hostPath(common.API_HOST_AVAILABILITY, host))
	var out structs.ResourceSnapshot
	return &out, genericGet(addr, &out)
}

func (c *Client) Partitions(host string) ([]string, error) {
	addr := c.addr(hostPath(common.API_HOST_PARTITIONS, host))
	var out common.PartitionsResponse
	return out.Partitions, genericGet(addr, &out)
}

func (c *Client) TestConnection(host string) (*structs.ConnectionResult, error) {
	addr := c.addr(hostPath(common.API_HOST_TEST, host))
	var out structs.ConnectionResult
	return &out, genericGet(addr, &out)
}

func (c *Client) addr(path string) *url.URL {
	return &url.URL{Scheme: c.url.Scheme, Host: c.url.Host, Path: path}
}

func jobPath(route, id string) string {
	return strings.Replace(route, "{id}", id, 1)
}

func hostPath(route, host string) string {
	return strings.Replace(route, "{host}", host, 1)
}

package common

import (
	"github.com/voidshard/slipway/pkg/slurm"
	"github.com/voidshard/slipway/pkg/structs"
)

// SubmitRequest carries a job spec to submit or preview.
//
// ProjectPath is optional; when set the server reads git metadata and
// project settings from that directory to fill the render context.
// Callers that already know their commit / conda env can set Context
// directly instead.
type SubmitRequest struct {
	Spec        *structs.JobSpec     `json:"spec"`
	ProjectPath string               `json:"project_path,omitempty"`
	Context     *slurm.RenderContext `json:"context,omitempty"`
}

// ArchiveRequest names jobs to archive or unarchive.
type ArchiveRequest struct {
	IDs []string `json:"ids"`
}

package http

import (
	"net/http"
	"time"

	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// BatchReport is the JSON form of a finished batch.
type BatchReport struct {
	Started   time.Time        `json:"started"`
	Finished  time.Time        `json:"finished"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	Documents []DocumentResult `json:"documents"`
}

// DocumentResult is the JSON form of one document outcome.
type DocumentResult struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Stage   string `json:"stage"`
	Error   string `json:"error,omitempty"`
	EntryID string `json:"entry_id,omitempty"`
}

// BatchStatus is the JSON form of the running batch state.
type BatchStatus struct {
	Running   bool             `json:"running"`
	Processed int              `json:"processed"`
	Errors    int              `json:"errors"`
	Documents []DocumentStatus `json:"documents"`
}

// DocumentStatus is the JSON form of a document in a running batch.
type DocumentStatus struct {
	Title  string `json:"title"`
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

type batchHandler struct {
	pipeline driving.PipelineService
}

func (h *batchHandler) run(w http.ResponseWriter, r *http.Request) {
	report, err := h.pipeline.RunBatch(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := BatchReport{
		Started:   report.Started,
		Finished:  report.Finished,
		Succeeded: report.Succeeded(),
		Failed:    report.Failed(),
		Skipped:   report.Skipped(),
		Documents: make([]DocumentResult, len(report.Results)),
	}
	for i, res := range report.Results {
		doc := DocumentResult{Title: res.Title, Path: res.Path, Stage: res.Stage.String()}
		if res.Err != nil {
			doc.Error = res.Err.Error()
		}
		if res.Entry != nil {
			doc.EntryID = res.Entry.ID
		}
		out.Documents[i] = doc
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *batchHandler) status(w http.ResponseWriter, _ *http.Request) {
	st := h.pipeline.Status()

	out := BatchStatus{
		Running:   st.Running,
		Processed: st.DocumentsProcessed,
		Errors:    st.ErrorCount,
		Documents: make([]DocumentStatus, len(st.Documents)),
	}
	for i, d := range st.Documents {
		out.Documents[i] = DocumentStatus{Title: d.Title, Stage: d.Stage.String(), Detail: d.Describe()}
	}
	writeJSON(w, http.StatusOK, out)
}

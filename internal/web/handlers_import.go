package web

import (
	"context"
	"io"
	"net/http"

	"github.com/koshanqari/kanYini-connect-sub000/internal/importer"
	"github.com/koshanqari/kanYini-connect-sub000/internal/logging"
	mw "github.com/koshanqari/kanYini-connect-sub000/internal/web/middleware"
)

// handleImport processes a bulk member upload. The file arrives as the
// "file" field of a multipart form; the response is the full per-row report.
// Row-level problems never fail the request, only file-level ones do.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		respondErrorMsg(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondErrorMsg(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	actor, _ := mw.UserFromContext(r.Context())
	log := logging.WithFields(ctx,
		"filename", header.Filename,
		"size", header.Size,
		"imported_by", actor.ID,
	)
	log.Info("import started")

	report, err := s.importer.Import(ctx, string(data))
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.Info("import completed",
		"total", report.Summary.Total,
		"successful", report.Summary.Successful,
		"failed", report.Summary.Failed,
	)
	writeJSON(w, http.StatusOK, report)
}

// handleImportTemplate serves the downloadable import template.
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="member_import_template.csv"`)
	if _, err := io.WriteString(w, importer.Template()); err != nil {
		logging.FromContext(r.Context()).Error("template write failed", "error", err.Error())
	}
}

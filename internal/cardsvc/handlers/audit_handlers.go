package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/sheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// POST /audit/normalize, multipart field "file"
func (h *Handler) AuditNormalize(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.readUpload(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	result, err := sheet.Audit(name, data)
	if err != nil {
		writeUploadError(w, err)
		return
	}
	log.Infof("audited %s: %d rows", name, result.Summary.Total)
	writeJSON(w, http.StatusOK, result)
}

// POST /audit/export, multipart upload or JSON {fileName, rows}
func (h *Handler) AuditExport(w http.ResponseWriter, r *http.Request) {
	name, rows, err := h.auditRows(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	out, err := sheet.EncodeXLSX(rows)
	if err != nil {
		log.Errorf("Error [sheet.EncodeXLSX] %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": sheet.ProcessedFileName(name),
	}))
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// POST /audit/report, same inputs as export
func (h *Handler) AuditReport(w http.ResponseWriter, r *http.Request) {
	_, rows, err := h.auditRows(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := sheet.RenderReport(&buf, rows, time.Now()); err != nil {
		log.Errorf("Error [sheet.RenderReport] %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

type uploadError struct {
	msg string
}

func (e *uploadError) Error() string { return e.msg }

// auditRows returns normalized rows either from an uploaded file or from a
// JSON body holding a table the UI already normalized.
func (h *Handler) auditRows(w http.ResponseWriter, r *http.Request) (string, [][]string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var body struct {
			FileName string     `json:"fileName"`
			Rows     [][]string `json:"rows"`
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
		if err := decodeBody(r, &body); err != nil {
			return "", nil, &uploadError{msg: "Invalid JSON body"}
		}
		if len(body.Rows) == 0 {
			return "", nil, sheet.ErrEmptyWorksheet
		}
		return body.FileName, body.Rows, nil
	}

	name, data, err := h.readUpload(w, r)
	if err != nil {
		return "", nil, err
	}
	result, err := sheet.Audit(name, data)
	if err != nil {
		return "", nil, err
	}
	return name, result.Rows, nil
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, &uploadError{msg: fmt.Sprintf("File exceeds %d MB", h.maxUpload>>20)}
		}
		return "", nil, &uploadError{msg: "A file upload is required"}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, &uploadError{msg: "A file upload is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, &sheet.FileReadError{Name: header.Filename, Err: err}
	}
	return header.Filename, data, nil
}

func writeUploadError(w http.ResponseWriter, err error) {
	var (
		uerr *uploadError
		ferr *sheet.FileReadError
	)
	switch {
	case errors.As(err, &uerr):
		writeError(w, http.StatusBadRequest, uerr.msg)
	case errors.Is(err, sheet.ErrEmptyWorkbook), errors.Is(err, sheet.ErrEmptyWorksheet), errors.As(err, &ferr):
		log.Warnf("rejected upload: %s", err)
		writeError(w, http.StatusBadRequest, "Error reading file, please check the file format")
	default:
		log.Errorf("Error [audit] %s", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

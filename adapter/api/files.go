package api

import (
	"mime/multipart"
	"net/http"

	fileCommands "github.com/MohamedAbusurra/CS438class/internal/files/application/commands"
	fileDomain "github.com/MohamedAbusurra/CS438class/internal/files/domain"
)

// multipartMemory is how much of an upload is buffered before spilling to
// temporary files.
const multipartMemory = 8 << 20

// readUpload parses the multipart form and returns the "file" part.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, fileDomain.MaxFileSize+maxJSONBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form field 'file'")
		return nil, nil, false
	}
	return file, header, true
}

// uploadFile handles POST /api/v1/projects/{id}/files
func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	file, header, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := s.app.UploadFile.Handle(r.Context(), fileCommands.UploadFileCommand{
		ProjectID:   projectID,
		UploadedBy:  actorID(r),
		FileName:    header.Filename,
		FileType:    r.FormValue("file_type"),
		Description: r.FormValue("description"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.File)
}

// uploadFileVersion handles POST /api/v1/files/{id}/versions
func (s *Server) uploadFileVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	file, header, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	updated, err := s.app.UploadFileVersion.Handle(r.Context(), fileCommands.UploadNewVersionCommand{
		FileID:    id,
		ChangedBy: actorID(r),
		Size:      header.Size,
		Body:      file,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

// getFile handles GET /api/v1/files/{id}
func (s *Server) getFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	file, err := s.app.Files.GetFile(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// downloadFile handles GET /api/v1/files/{id}/download
func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	opened, err := s.app.Files.OpenFile(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer opened.Body.Close()
	streamAttachment(w, r, s, opened.Name, opened.ContentType, opened.Size, opened.Body)
}

// deleteFile handles DELETE /api/v1/files/{id}
func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.app.DeleteFile.Handle(r.Context(), fileCommands.DeleteFileCommand{FileID: id}); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package rest

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/zlnvch/markwiki/filestore"
	"github.com/zlnvch/markwiki/models"
	"github.com/zlnvch/markwiki/pages"
	"github.com/zlnvch/markwiki/service"
)

const maxUploadBytes = 32 << 20

type pageResponse struct {
	Url     string   `json:"url"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Html    string   `json:"html,omitempty"`
}

type pageListResponse struct {
	Pages []pageResponse `json:"pages"`
}

func toPageResponse(page models.Page, withHtml bool) pageResponse {
	resp := pageResponse{
		Url:     page.URL,
		Title:   page.Title,
		Content: page.Content,
		Tags:    page.Tags,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if withHtml {
		resp.Html = service.RenderHTML(page.Content)
	}
	return resp
}

func (h *Handler) HandlePages(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	url := strings.Trim(strings.TrimPrefix(r.URL.Path, "/pages/"), "/")
	if url == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handlePageIndex(w, r)
		return
	}

	if r.Method == http.MethodPost && strings.HasSuffix(url, "/move") {
		h.handleMovePage(w, r, strings.TrimSuffix(url, "/move"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetPage(w, r, url)

	case http.MethodPut:
		h.handlePutPage(w, r, url)

	case http.MethodDelete:
		h.handleDeletePage(w, r, url)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handlePageIndex(w http.ResponseWriter, _ *http.Request) {
	all, err := h.Service.Pages.Index()
	if err != nil {
		log.Printf("Page index failed: %v", err)
		http.Error(w, "failed to list pages", http.StatusInternalServerError)
		return
	}

	resp := pageListResponse{Pages: make([]pageResponse, 0, len(all))}
	for _, page := range all {
		resp.Pages = append(resp.Pages, toPageResponse(page, false))
	}
	h.sendResponse(w, resp)
}

func (h *Handler) handleGetPage(w http.ResponseWriter, _ *http.Request, url string) {
	page, err := h.Service.Pages.Get(url)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Get page failed: %v", err)
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		return
	}
	h.sendResponse(w, toPageResponse(page, true))
}

type putPageRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (h *Handler) handlePutPage(w http.ResponseWriter, r *http.Request, url string) {
	var req putPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	page := models.Page{
		URL:     url,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if page.Title == "" {
		page.Title = url
	}

	if err := h.Service.Pages.Save(page); err != nil {
		log.Printf("Save page failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.sendResponse(w, toPageResponse(page, false))
}

type deletePageResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) handleDeletePage(w http.ResponseWriter, _ *http.Request, url string) {
	if err := h.Service.Pages.Delete(url); err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Delete page failed: %v", err)
		http.Error(w, "failed to delete page", http.StatusInternalServerError)
		return
	}
	h.sendResponse(w, deletePageResponse{Success: true})
}

type movePageRequest struct {
	NewUrl string `json:"newUrl"`
}

func (h *Handler) handleMovePage(w http.ResponseWriter, r *http.Request, url string) {
	var req movePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Pages.Move(url, req.NewUrl); err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Move page failed: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.sendResponse(w, movePageResponse{Url: req.NewUrl})
}

type movePageResponse struct {
	Url string `json:"url"`
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	term := r.URL.Query().Get("term")
	if term == "" {
		http.Error(w, "search term must not be empty", http.StatusBadRequest)
		return
	}
	ignoreCase := r.URL.Query().Get("ignoreCase") != "false"

	found, err := h.Service.Pages.Search(term, ignoreCase)
	if err != nil {
		log.Printf("Search failed: %v", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	resp := pageListResponse{Pages: make([]pageResponse, 0, len(found))}
	for _, page := range found {
		resp.Pages = append(resp.Pages, toPageResponse(page, false))
	}
	h.sendResponse(w, resp)
}

type tagListResponse struct {
	Tags []string `json:"tags"`
}

func (h *Handler) HandleTags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	tag := strings.Trim(strings.TrimPrefix(r.URL.Path, "/tags/"), "/")
	if tag == "" {
		tags, err := h.Service.Pages.Tags()
		if err != nil {
			log.Printf("List tags failed: %v", err)
			http.Error(w, "failed to list tags", http.StatusInternalServerError)
			return
		}
		h.sendResponse(w, tagListResponse{Tags: tags})
		return
	}

	tagged, err := h.Service.Pages.ByTag(tag)
	if err != nil {
		log.Printf("List pages by tag failed: %v", err)
		http.Error(w, "failed to list pages", http.StatusInternalServerError)
		return
	}

	resp := pageListResponse{Pages: make([]pageResponse, 0, len(tagged))}
	for _, page := range tagged {
		resp.Pages = append(resp.Pages, toPageResponse(page, false))
	}
	h.sendResponse(w, resp)
}

type previewRequest struct {
	Content string `json:"content"`
}

type previewResponse struct {
	Html string `json:"html"`
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	h.sendResponse(w, previewResponse{Html: service.RenderHTML(req.Content)})
}

type convertRequest struct {
	FileType string `json:"fileType"`
}

type conversionResult struct {
	FileType         string `json:"fileType"`
	FileSize         string `json:"fileSize,omitempty"`
	Payload          string `json:"payload,omitempty"`
	ConversionStatus string `json:"conversionStatus"`
	Error            string `json:"error,omitempty"`
}

type convertResponse struct {
	Result conversionResult `json:"result"`
}

// HandleConvert renders a page into the requested format and returns the
// payload as base64 text. Conversion failures are reported in the result
// body rather than as an HTTP error.
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	url := strings.Trim(strings.TrimPrefix(r.URL.Path, "/convert/"), "/")
	if url == "" {
		http.Error(w, "page url must not be empty", http.StatusBadRequest)
		return
	}

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	page, err := h.Service.Pages.Get(url)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Convert failed: %v", err)
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		return
	}

	if strings.EqualFold(req.FileType, "md") {
		raw := []byte(page.Content)
		h.sendResponse(w, convertResponse{Result: conversionResult{
			FileType:         "md",
			FileSize:         service.FormatFileSize(int64(len(raw))),
			Payload:          base64.StdEncoding.EncodeToString(raw),
			ConversionStatus: "Success",
		}})
		return
	}

	format, err := service.ParseFormat(req.FileType)
	if err != nil {
		h.sendResponse(w, convertResponse{Result: conversionResult{
			FileType:         req.FileType,
			ConversionStatus: "Failed",
			Error:            err.Error(),
		}})
		return
	}

	payload, size, err := service.NewConverter(page).Convert(format)
	if err != nil {
		h.sendResponse(w, convertResponse{Result: conversionResult{
			FileType:         format.String(),
			ConversionStatus: "Failed",
			Error:            err.Error(),
		}})
		return
	}

	h.sendResponse(w, convertResponse{Result: conversionResult{
		FileType:         format.String(),
		FileSize:         size,
		Payload:          payload,
		ConversionStatus: "Success",
	}})
}

// HandleDownload serves a page as a file attachment. The fileType query
// parameter selects the format; md returns the stored markdown verbatim.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	url := strings.Trim(strings.TrimPrefix(r.URL.Path, "/download/"), "/")
	if url == "" {
		http.Error(w, "page url must not be empty", http.StatusBadRequest)
		return
	}

	fileType := r.URL.Query().Get("fileType")
	if fileType == "" {
		fileType = "txt"
	}

	page, err := h.Service.Pages.Get(url)
	if err != nil {
		if errors.Is(err, pages.ErrPageNotFound) {
			http.Error(w, "page not found", http.StatusNotFound)
			return
		}
		log.Printf("Download failed: %v", err)
		http.Error(w, "failed to load page", http.StatusInternalServerError)
		return
	}

	filename := path.Base(url)

	if strings.EqualFold(fileType, "md") {
		h.sendAttachment(w, filename+".md", "text/markdown", []byte(page.Content))
		return
	}

	format, err := service.ParseFormat(fileType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	payload, _, err := service.NewConverter(page).Convert(format)
	if err != nil {
		log.Printf("Download conversion failed: %v", err)
		http.Error(w, "conversion failed", http.StatusInternalServerError)
		return
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		http.Error(w, "conversion failed", http.StatusInternalServerError)
		return
	}

	h.sendAttachment(w, filename+"."+format.String(), contentTypeFor(format), raw)
}

func contentTypeFor(format service.Format) string {
	switch format {
	case service.FormatPDF:
		return "application/pdf"
	case service.FormatTXT:
		return "text/plain; charset=utf-8"
	case service.FormatHTML:
		return "text/html; charset=utf-8"
	case service.FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

func (h *Handler) sendAttachment(w http.ResponseWriter, filename string, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to write attachment: %v", err)
	}
}

type fileListResponse struct {
	Files []string `json:"files"`
}

func (h *Handler) HandleFiles(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.requireUser(w, r); !ok {
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/files/"), "/")
	if name == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleListFiles(w, r)

		case http.MethodPost:
			h.handleUploadFile(w, r)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleDownloadFile(w, r, name)

	case http.MethodDelete:
		h.handleDeleteFile(w, r, name)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleListFiles(w http.ResponseWriter, _ *http.Request) {
	names, err := h.Service.Files.List()
	if err != nil {
		log.Printf("List files failed: %v", err)
		http.Error(w, "failed to list files", http.StatusInternalServerError)
		return
	}
	h.sendResponse(w, fileListResponse{Files: names})
}

type uploadFileResponse struct {
	Filename string `json:"filename"`
}

func (h *Handler) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.Service.Files.Save(header.Filename, file); err != nil {
		switch {
		case errors.Is(err, filestore.ErrEmptyFilename):
			http.Error(w, "filename must not be empty", http.StatusBadRequest)
		case errors.Is(err, filestore.ErrFileExists):
			http.Error(w, "file already exists", http.StatusConflict)
		default:
			log.Printf("Upload failed: %v", err)
			http.Error(w, "upload failed", http.StatusInternalServerError)
		}
		return
	}
	h.sendResponse(w, uploadFileResponse{Filename: header.Filename})
}

func (h *Handler) handleDownloadFile(w http.ResponseWriter, _ *http.Request, name string) {
	f, err := h.Service.Files.Open(name)
	if err != nil {
		if errors.Is(err, filestore.ErrFileNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		log.Printf("Open file failed: %v", err)
		http.Error(w, "failed to open file", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("Failed to stream file: %v", err)
	}
}

type deleteFileResponse struct {
	Deleted bool `json:"deleted"`
}

func (h *Handler) handleDeleteFile(w http.ResponseWriter, _ *http.Request, name string) {
	deleted, err := h.Service.Files.Delete(name)
	if err != nil {
		log.Printf("Delete file failed: %v", err)
		http.Error(w, "failed to delete file", http.StatusInternalServerError)
		return
	}
	h.sendResponse(w, deleteFileResponse{Deleted: deleted})
}

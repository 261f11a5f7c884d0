package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/oapi-codegen/runtime"
)

// Operation-specific parameter names and fixed values.
const (
	ParamSourceFileName = "source_file_name"
	ParamLocale         = "locale"
	ParamFileFormat     = "file_format"

	// FormFieldFile is the multipart field carrying the uploaded bytes.
	FormFieldFile = "file"

	// FileFormatAndroidXML is the only upload format this client sends.
	FileFormatAndroidXML = "ANDROID_XML"

	// DefaultSourceFileName is the source file used when a download does
	// not name one.
	DefaultSourceFileName = "strings.xml"
)

// FileAttachment points at a file on disk to be uploaded. The caller keeps
// ownership; the file must stay readable until the request is built.
type FileAttachment struct {
	// Path is the location of the file on disk.
	Path string
	// Name is the file name reported to the server. Defaults to the base
	// name of Path.
	Name string
}

// FileName returns Name, or the base of Path when Name is empty.
func (f FileAttachment) FileName() string {
	if f.Name != "" {
		return f.Name
	}
	return filepath.Base(f.Path)
}

// NewListFilesRequest builds GET /projects/{project_id}/files.
func NewListFilesRequest(server string, projectID int, params Params) (*http.Request, error) {
	queryURL, err := projectURL(server, projectID, "files")
	if err != nil {
		return nil, err
	}
	return newGetRequest(queryURL, params)
}

// NewListLanguagesRequest builds GET /projects/{project_id}/languages.
func NewListLanguagesRequest(server string, projectID int, params Params) (*http.Request, error) {
	queryURL, err := projectURL(server, projectID, "languages")
	if err != nil {
		return nil, err
	}
	return newGetRequest(queryURL, params)
}

// NewGetTranslationRequest builds GET /projects/{project_id}/translations.
func NewGetTranslationRequest(server string, projectID int, params Params) (*http.Request, error) {
	queryURL, err := projectURL(server, projectID, "translations")
	if err != nil {
		return nil, err
	}
	return newGetRequest(queryURL, params)
}

// NewListLocalesRequest builds GET /locales.
func NewListLocalesRequest(server string, params Params) (*http.Request, error) {
	queryURL, err := operationURL(server, "/locales")
	if err != nil {
		return nil, err
	}
	return newGetRequest(queryURL, params)
}

// NewUploadFileRequest builds the multipart POST /projects/{project_id}/files.
// params become ordinary form fields, written in order ahead of the file part.
func NewUploadFileRequest(server string, projectID int, params Params, file FileAttachment) (*http.Request, error) {
	queryURL, err := projectURL(server, projectID, "files")
	if err != nil {
		return nil, err
	}

	body, contentType, err := newMultipartBody(params, file)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, queryURL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", contentType)

	return req, nil
}

func newGetRequest(queryURL *url.URL, params Params) (*http.Request, error) {
	queryURL.RawQuery = params.Encode()

	req, err := http.NewRequest(http.MethodGet, queryURL.String(), nil)
	if err != nil {
		return nil, err
	}

	return req, nil
}

func projectURL(server string, projectID int, resource string) (*url.URL, error) {
	var err error

	var pathParam0 string

	pathParam0, err = runtime.StyleParamWithLocation("simple", false, "project_id", runtime.ParamLocationPath, projectID)
	if err != nil {
		return nil, err
	}

	return operationURL(server, fmt.Sprintf("/projects/%s/%s", pathParam0, resource))
}

func operationURL(server, operationPath string) (*url.URL, error) {
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}

	if operationPath[0] == '/' {
		operationPath = "." + operationPath
	}

	return serverURL.Parse(operationPath)
}

func newMultipartBody(params Params, file FileAttachment) (*bytes.Reader, string, error) {
	f, err := os.Open(file.Path)
	if err != nil {
		return nil, "", fmt.Errorf("open upload file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, kv := range params {
		if err := mw.WriteField(kv.Key, kv.Value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", kv.Key, err)
		}
	}

	part, err := mw.CreateFormFile(FormFieldFile, file.FileName())
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("read upload file: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}

	return bytes.NewReader(buf.Bytes()), mw.FormDataContentType(), nil
}

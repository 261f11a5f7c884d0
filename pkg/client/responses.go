package client

import (
	"encoding/json"
	"fmt"
	"time"
)

// The operations return bodies verbatim. The decoders below are optional
// helpers for callers that want typed access to the list payloads.

// Meta is the envelope metadata of a list response.
type Meta struct {
	Status      int `json:"status"`
	RecordCount int `json:"record_count"`
	PageCount   int `json:"page_count"`
	NextPage    any `json:"next_page"`
}

// File is an uploaded source file of a project.
type File struct {
	Name         string
	StringCount  int
	ImportID     int64
	ImportStatus string
	UploadedAt   time.Time
}

// FileList is the decoded ListFiles payload.
type FileList struct {
	Meta  Meta
	Files []File
}

// Locale is a locale supported by OneSky.
type Locale struct {
	Code        string `json:"code"`
	EnglishName string `json:"english_name"`
	LocalName   string `json:"local_name"`
	Locale      string `json:"locale"`
	Region      string `json:"region"`
}

// Language is a language enabled on a project.
type Language struct {
	Locale
	IsBaseLanguage      bool
	IsReadyToPublish    bool
	TranslationProgress string
	LastUpdatedAt       time.Time
}

// UploadReceipt is the decoded Upload payload.
type UploadReceipt struct {
	Name      string
	Format    string
	ImportID  int64
	CreatedAt time.Time
}

type filesResponse struct {
	Meta Meta `json:"meta"`
	Data []struct {
		FileName            string `json:"file_name"`
		StringCount         int    `json:"string_count"`
		UploadedAt          string `json:"uploaded_at"`
		UploadedAtTimestamp int64  `json:"uploaded_at_timestamp"`
		LastImport          *struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"last_import"`
	} `json:"data"`
}

type localesResponse struct {
	Meta Meta     `json:"meta"`
	Data []Locale `json:"data"`
}

type languagesResponse struct {
	Meta Meta `json:"meta"`
	Data []struct {
		Locale
		IsBaseLanguage         bool   `json:"is_base_language"`
		IsReadyToPublish       bool   `json:"is_ready_to_publish"`
		TranslationProgress    string `json:"translation_progress"`
		LastUpdatedAt          string `json:"last_updated_at"`
		LastUpdatedAtTimestamp int64  `json:"last_updated_at_timestamp"`
	} `json:"data"`
}

type uploadResponse struct {
	Meta Meta `json:"meta"`
	Data struct {
		Name   string `json:"name"`
		Format string `json:"format"`
		Import struct {
			ID                 int64  `json:"id"`
			CreatedAt          string `json:"created_at"`
			CreatedAtTimestamp int64  `json:"created_at_timestamp"`
		} `json:"import"`
	} `json:"data"`
}

// ParseFiles decodes a ListFiles body.
func ParseFiles(raw string) (*FileList, error) {
	var resp filesResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}

	files := make([]File, len(resp.Data))
	for i, d := range resp.Data {
		files[i] = File{
			Name:        d.FileName,
			StringCount: d.StringCount,
			UploadedAt:  resolveTimestamp(d.UploadedAt, d.UploadedAtTimestamp),
		}
		if d.LastImport != nil {
			files[i].ImportID = d.LastImport.ID
			files[i].ImportStatus = d.LastImport.Status
		}
	}

	return &FileList{Meta: resp.Meta, Files: files}, nil
}

// ParseLocales decodes a ListLocales body.
func ParseLocales(raw string) ([]Locale, error) {
	var resp localesResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}
	return resp.Data, nil
}

// ParseLanguages decodes a ListLanguages body.
func ParseLanguages(raw string) ([]Language, error) {
	var resp languagesResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode languages: %w", err)
	}

	languages := make([]Language, len(resp.Data))
	for i, d := range resp.Data {
		languages[i] = Language{
			Locale:              d.Locale,
			IsBaseLanguage:      d.IsBaseLanguage,
			IsReadyToPublish:    d.IsReadyToPublish,
			TranslationProgress: d.TranslationProgress,
			LastUpdatedAt:       resolveTimestamp(d.LastUpdatedAt, d.LastUpdatedAtTimestamp),
		}
	}

	return languages, nil
}

// ParseUpload decodes an Upload body.
func ParseUpload(raw string) (*UploadReceipt, error) {
	var resp uploadResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("decode upload: %w", err)
	}

	return &UploadReceipt{
		Name:      resp.Data.Name,
		Format:    resp.Data.Format,
		ImportID:  resp.Data.Import.ID,
		CreatedAt: resolveTimestamp(resp.Data.Import.CreatedAt, resp.Data.Import.CreatedAtTimestamp),
	}, nil
}

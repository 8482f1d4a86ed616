package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LakshmiNeithilath/FileComparison/internal/comparison"
	"github.com/LakshmiNeithilath/FileComparison/internal/langdetect"
	"github.com/LakshmiNeithilath/FileComparison/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoComparer extracts both documents and reports their texts as differences.
type echoComparer struct{}

func (echoComparer) Compare(ctx context.Context, doc1, doc2 string, extract comparison.ExtractFunc) (*comparison.Result, error) {
	var texts []string
	for _, doc := range []string{doc1, doc2} {
		text, err := extract(ctx, doc)
		if err != nil {
			return nil, &comparison.Error{Document: doc, Stage: comparison.StageExtraction, Err: err}
		}
		if text == "" {
			return nil, &comparison.Error{Document: doc, Stage: comparison.StageLanguageDetection, Err: langdetect.ErrLanguageDetection}
		}
		texts = append(texts, text)
	}
	return &comparison.Result{
		ID:              fmt.Sprintf("cmp-%d", len(texts[0])+len(texts[1])),
		Documents:       [2]string{doc1, doc2},
		SimilarityScore: 0.5,
		Differences:     texts,
	}, nil
}

func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func postCompare(t *testing.T, server *httptest.Server, files map[string][2]string) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, files)
	resp, err := http.Post(server.URL+"/api/compare", contentType, body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCompareAndList(t *testing.T) {
	server := httptest.NewServer(New(echoComparer{}).Routes())
	defer server.Close()

	resp := postCompare(t, server, map[string][2]string{
		"doc1": {"a.txt", "first document"},
		"doc2": {"a.txt", "second document"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var record models.ComparisonRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&record))
	assert.Equal(t, "cmp-29", record.ID)
	assert.Equal(t, [2]string{"a.txt", "a.txt (2)"}, record.Result.Documents)
	assert.Equal(t, []string{"first document", "second document"}, record.Result.Differences)
	require.Len(t, record.Files, 2)
	assert.Equal(t, int64(len("first document")), record.Files[0].Size)

	list, err := http.Get(server.URL + "/api/comparisons")
	require.NoError(t, err)
	defer list.Body.Close()
	var records []models.ComparisonRecord
	require.NoError(t, json.NewDecoder(list.Body).Decode(&records))
	require.Len(t, records, 1)

	detail, err := http.Get(server.URL + "/api/comparisons/" + record.ID)
	require.NoError(t, err)
	defer detail.Body.Close()
	assert.Equal(t, http.StatusOK, detail.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/comparisons/"+record.ID, nil)
	require.NoError(t, err)
	deleted, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	deleted.Body.Close()
	assert.Equal(t, http.StatusNoContent, deleted.StatusCode)

	missing, err := http.Get(server.URL + "/api/comparisons/" + record.ID)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestCompare_BadRequests(t *testing.T) {
	server := httptest.NewServer(New(echoComparer{}).Routes())
	defer server.Close()

	resp := postCompare(t, server, map[string][2]string{"doc1": {"a.txt", "only one"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postCompare(t, server, map[string][2]string{
		"doc1": {"a.txt", "text"},
		"doc2": {"b.exe", "binary"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	get, err := http.Get(server.URL + "/api/compare")
	require.NoError(t, err)
	get.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestCompare_PipelineError(t *testing.T) {
	server := httptest.NewServer(New(echoComparer{}).Routes())
	defer server.Close()

	resp := postCompare(t, server, map[string][2]string{
		"doc1": {"a.txt", "text"},
		"doc2": {"b.txt", ""},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var errResp models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "language detection", errResp.Stage)
	assert.Equal(t, "b.txt", errResp.Document)
}

func TestHealthcheck(t *testing.T) {
	rec := httptest.NewRecorder()
	New(echoComparer{}).Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

package portal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadText(t *testing.T) {
	var gotPath, gotMethod, gotCT string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod, gotCT = r.URL.Path, r.Method, r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"upload_id":"u1","extracted_fields":{"name":{"value":"Asha","conf":0.92}},"redirect_url":"/student_form?upload_id=u1&from_upload=1"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).UploadText(context.Background(), "certificate text")
	require.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "/api/upload_certificate", gotPath)
	assert.Equal(t, "application/json", gotCT)
	assert.JSONEq(t, `{"text":"certificate text"}`, string(gotBody))

	assert.Equal(t, "u1", res.UploadID)
	assert.Equal(t, ExtractedField{Value: "Asha", Conf: 0.92}, res.ExtractedFields["name"])
}

func TestUploadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/upload_certificate", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "cert.pdf", hdr.Filename)
		assert.Equal(t, "pdf bytes", string(data))

		_, _ = w.Write([]byte(`{"upload_id":"u2","redirect_url":"/student_form?upload_id=u2&from_upload=1"}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).UploadFile(context.Background(), "cert.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, "u2", res.UploadID)
}

func TestUploadErrorCarriesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"No file or text provided"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(srv.URL).UploadText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "No file or text provided")
}

func TestGetUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GET", r.Method)
		require.Equal(t, "/api/upload/u1", r.URL.Path)
		// the portal returns full upload metadata; extras are ignored
		_, _ = w.Write([]byte(`{
			"upload_id":"u1",
			"filename":"u1_cert.pdf",
			"timestamp":"20260824_120000",
			"extracted_fields":{"hours":{"value":"240","conf":0.4}}
		}`))
	}))
	defer srv.Close()

	res, err := New(srv.URL).GetUpload(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, ExtractedField{Value: "240", Conf: 0.4}, res.ExtractedFields["hours"])
}

func TestGetUploadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"Upload not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetUpload(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSubmitInternship(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/submit_internship", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"redirect_url":"/result/abc123"}`))
	}))
	defer srv.Close()

	sub := Submission{
		Name:     "Asha",
		Hours:    "240",
		UploadID: "u1",
		FieldConfidences: map[string]FieldConfidence{
			"name":  {Value: "Asha", Conf: 0.92},
			"hours": {Value: "240", Conf: 1.0},
		},
	}
	redirect, err := New(srv.URL).SubmitInternship(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "/result/abc123", redirect)

	assert.Equal(t, "Asha", got["name"])
	assert.Equal(t, "u1", got["upload_id"])
	fc := got["field_confidences"].(map[string]any)
	require.Len(t, fc, 2)
	name := fc["name"].(map[string]any)
	assert.Equal(t, "Asha", name["value"])
	assert.InDelta(t, 0.92, name["conf"], 1e-9)
}

func TestSubmitInternshipRejectsBadHours(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"redirect_url":"/result/x"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitInternship(context.Background(), Submission{Hours: "lots"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid submission")
	assert.Zero(t, hits, "validation failures never reach the portal")
}

func TestSubmitInternshipError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"pipeline exploded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitInternship(context.Background(), Submission{Name: "Asha"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "pipeline exploded")
}

func TestUploadIDFromRedirect(t *testing.T) {
	assert.Equal(t, "u1", UploadIDFromRedirect("/student_form?upload_id=u1&from_upload=1"))
	assert.Equal(t, "", UploadIDFromRedirect("/student_form"))
	assert.Equal(t, "", UploadIDFromRedirect("://bad"))
}

func TestAbsoluteURL(t *testing.T) {
	c := New("http://portal.local/")
	assert.Equal(t, "http://portal.local/result/abc", c.AbsoluteURL("/result/abc"))
	assert.Equal(t, "https://elsewhere/x", c.AbsoluteURL("https://elsewhere/x"))
	assert.True(t, strings.HasPrefix(c.AbsoluteURL("result/abc"), "http://portal.local/"))
}

package server

import (
	"bytes"
	"encoding/json"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const testCasePath = "../../test/test_case.yaml"

func TestHandlePlanSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	data, err := os.ReadFile(filepath.FromSlash(testCasePath))
	if err != nil {
		t.Fatalf("failed to read test case: %v", err)
	}

	rr := performUpload(t, handler, string(data), "test_case.yaml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Fatalf("expected evaluation id to be a uuid, got %q: %v", resp.ID, err)
	}
	if len(resp.Scenarios) != 2 {
		t.Fatalf("expected 2 active scenarios, got %v", resp.Scenarios)
	}
	if len(resp.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(resp.Plans))
	}
	if resp.CSV == "" {
		t.Fatal("expected CSV data in response")
	}
	if resp.Duration == "" {
		t.Fatal("expected duration in response")
	}
	if resp.Config == nil {
		t.Fatal("expected config data in response")
	}
	if resp.ConfigYAML == "" {
		t.Fatal("expected config YAML in response")
	}

	plan := resp.Plans[0]
	if plan.Name != "Non-extraction" {
		t.Fatalf("expected first plan Non-extraction, got %s", plan.Name)
	}
	if len(plan.Ledger) != 4 {
		t.Fatalf("expected 4 ledger entries, got %d", len(plan.Ledger))
	}
	lowerRight := plan.Ledger[2]
	if lowerRight.ArchSide != "lower-right" {
		t.Fatalf("expected third ledger entry lower-right, got %s", lowerRight.ArchSide)
	}
	if math.Abs(lowerRight.Remaining-2.6) > 1e-9 {
		t.Errorf("lower-right remaining = %v, expected 2.6", lowerRight.Remaining)
	}
	if lowerRight.Status != "spacing remains" {
		t.Errorf("lower-right status = %q, expected spacing remains", lowerRight.Status)
	}

	if len(plan.Movement) != 2 || plan.Movement[1].Arch != "lower" {
		t.Fatalf("expected upper and lower movement, got %+v", plan.Movement)
	}
	if !plan.Movement[1].MidlineCorrected || plan.Movement[1].Incisor != -1.0 {
		t.Errorf("expected midline-corrected lower incisor -1.0, got %+v", plan.Movement[1])
	}
	if plan.Midlines.LowerDelta == nil || *plan.Midlines.LowerDelta != 0.75 {
		t.Errorf("expected lower midline delta 0.75, got %v", plan.Midlines.LowerDelta)
	}
}

func TestHandlePlanEditorSuccess(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	data, err := os.ReadFile(filepath.FromSlash(testCasePath))
	if err != nil {
		t.Fatalf("failed to read test case: %v", err)
	}

	var cfg map[string]interface{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to unmarshal test case: %v", err)
	}

	rr := performEditorJSON(t, handler, map[string]interface{}{"config": cfg}, "/api/editor/plan")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(resp.Plans))
	}
	if resp.Plans[1].Name != "Extraction" || resp.Plans[1].TreatToLeft != "Class III" {
		t.Fatalf("unexpected second plan %+v", resp.Plans[1])
	}
	if resp.Plans[1].IncludeGrowth {
		t.Error("expected growth excluded for Extraction")
	}
}

func TestHandlePlanEditorInvalidConfigPayload(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performEditorJSON(t, handler, map[string]interface{}{"config": "nope"}, "/api/editor/plan")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandlePlanInvalidGoal(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	caseYAML := `
common:
  growth:
    stage: complete
scenarios:
  - name: bad goal
    active: true
    treatTo: Class IV
`

	rr := performUpload(t, handler, caseYAML, "case.yaml")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "bad goal") || !strings.Contains(resp["error"], "invalid argument") {
		t.Fatalf("expected invalid goal error, got %q", resp["error"])
	}
}

func TestHandleConfigExport(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performEditorJSON(t, handler, exportPayload(), "/api/editor/export")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	yamlStr := resp["configYaml"]
	if yamlStr == "" {
		t.Fatal("expected configYaml in response")
	}
	if !strings.Contains(yamlStr, "scenarios:") {
		t.Fatalf("expected yaml to contain scenarios section, got %q", yamlStr)
	}

	var top []string
	for _, line := range strings.Split(strings.TrimRight(yamlStr, "\n"), "\n") {
		if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "-") {
			continue
		}
		top = append(top, strings.SplitN(line, ":", 2)[0])
	}

	expected := []string{"logging", "output", "common", "scenarios"}
	if strings.Join(top, ",") != strings.Join(expected, ",") {
		t.Fatalf("expected top-level order %v, got %v", expected, top)
	}
}

func TestHandleConfigExportTOML(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performEditorJSON(t, handler, exportPayload(), "/api/editor/export?format=toml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	tomlStr := resp["configToml"]
	for _, fragment := range []string{"[[scenarios]]", `name = "sample"`, "[common.growth]", `stage = "peak"`} {
		if !strings.Contains(tomlStr, fragment) {
			t.Errorf("expected toml to contain %q, got %q", fragment, tomlStr)
		}
	}
}

func TestHandleConfigExportUnsupportedFormat(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performEditorJSON(t, handler, exportPayload(), "/api/editor/export?format=xml")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, " v1.2.3 ")

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "v1.2.3" {
		t.Fatalf("expected trimmed version, got %q", resp["version"])
	}
}

func TestHandlePlanMethodNotAllowed(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	req := httptest.NewRequest(http.MethodPut, "/api/plan", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestHandlePlanUploadTooLarge(t *testing.T) {
	handler := NewHandler(zap.NewNop(), limitedConfig(64), "test")

	rr := performUpload(t, handler, strings.Repeat("a", 128), "case.yaml")

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "upload exceeds limit") {
		t.Fatalf("expected upload limit error message, got %q", resp["error"])
	}
}

func TestHandlePlanMissingFile(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/plan", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp["error"] != "missing case file" {
		t.Fatalf("expected missing file error, got %q", resp["error"])
	}
}

func TestHandlePlanInvalidYAML(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	rr := performUpload(t, handler, "common: [", "case.yaml")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if !strings.Contains(resp["error"], "error reading config data") {
		t.Fatalf("expected parse error message, got %q", resp["error"])
	}
}

func TestHandleConfiguredPlan(t *testing.T) {
	casePath, err := filepath.Abs(filepath.FromSlash(testCasePath))
	if err != nil {
		t.Fatalf("failed to resolve test case path: %v", err)
	}
	cfg := DefaultConfig()
	cfg.CaseFile = casePath
	handler := NewHandler(zap.NewNop(), cfg, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp planResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if strings.Join(resp.Scenarios, ",") != "Non-extraction,Extraction" {
		t.Fatalf("unexpected scenarios %v", resp.Scenarios)
	}
}

func TestHandleConfiguredPlanWithoutCaseFile(t *testing.T) {
	handler := NewHandler(zap.NewNop(), nil, "test")

	req := httptest.NewRequest(http.MethodGet, "/api/plan", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleConfigExportDefaultFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ExportFormat = "toml"
	handler := NewHandler(zap.NewNop(), cfg, "test")

	rr := performEditorJSON(t, handler, exportPayload(), "/api/editor/export")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["configToml"] == "" || resp["configYaml"] != "" {
		t.Fatalf("expected the configured toml export, got %v", resp)
	}
}

func limitedConfig(limit int64) *Config {
	cfg := DefaultConfig()
	cfg.uploadLimit = limit
	return cfg
}

func exportPayload() map[string]interface{} {
	return map[string]interface{}{
		"scenarios": []interface{}{
			map[string]interface{}{
				"name":   "sample",
				"active": true,
			},
		},
		"common": map[string]interface{}{
			"growth": map[string]interface{}{
				"sex":   "female",
				"stage": "peak",
			},
		},
		"output": map[string]interface{}{
			"format": "pretty",
		},
		"logging": map[string]interface{}{
			"level": "info",
		},
	}
}

func performUpload(t *testing.T, handler http.Handler, content, filename string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form data: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/plan", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func performEditorJSON(t *testing.T, handler http.Handler, payload map[string]interface{}, path string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

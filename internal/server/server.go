package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iwvelando/vto-calculator/internal/config"
	"github.com/iwvelando/vto-calculator/internal/vto"
	"github.com/iwvelando/vto-calculator/pkg/constants"
	"github.com/iwvelando/vto-calculator/pkg/ledger"
	"github.com/iwvelando/vto-calculator/pkg/output"
	"github.com/iwvelando/vto-calculator/pkg/validation"
	"github.com/iwvelando/vto-calculator/pkg/vtoerr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	caseFile      string
	exportFormat  string
	version       string
}

// NewHandler constructs the HTTP handler that serves the plan API. A nil cfg
// uses DefaultConfig.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}
	exportFormat := cfg.ExportFormat
	if exportFormat == "" {
		exportFormat = constants.ExportFormatYAML
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		caseFile:      cfg.CaseFile,
		exportFormat:  exportFormat,
		version:       trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Plan from an uploaded case file
		r.Post("/plan", h.handlePlan)

		// Plan from the case file named in the server config
		r.Get("/plan", h.handleConfiguredPlan)

		// Plan from editor-driven updates
		r.Post("/editor/plan", h.handlePlanEditor)

		// Case serialization for editor downloads
		r.Post("/editor/export", h.handleConfigExport)

		r.Get("/version", h.handleVersion)
	})

	return r
}

type planResponse struct {
	ID         string                 `json:"id"`
	Scenarios  []string               `json:"scenarios"`
	Plans      []planPayload          `json:"plans"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type planPayload struct {
	Name             string            `json:"name"`
	Patient          string            `json:"patient,omitempty"`
	IncludeGrowth    bool              `json:"includeGrowth"`
	DurationMonths   int               `json:"durationMonths"`
	TreatToRight     string            `json:"treatToRight"`
	TreatToLeft      string            `json:"treatToLeft"`
	InitialPositions positionsPayload  `json:"initialPositions"`
	Growth           growthPayload     `json:"growth"`
	GrowthEntered    bool              `json:"growthEntered"`
	Ledger           []ledgerPayload   `json:"ledger"`
	Movement         []movementPayload `json:"movement"`
	Midlines         midlinesPayload   `json:"midlines"`
}

type positionsPayload struct {
	R6 float64 `json:"r6"`
	L6 float64 `json:"l6"`
	D  float64 `json:"d"`
	S  float64 `json:"s"`
}

type growthPayload struct {
	SagittalMM        float64 `json:"sagittalMm"`
	VerticalMM        float64 `json:"verticalMm"`
	TransverseMM      float64 `json:"transverseMm"`
	UpperSpaceEquivMM float64 `json:"upperSpaceEquivMm"`
	LowerSpaceEquivMM float64 `json:"lowerSpaceEquivMm"`
}

type ledgerPayload struct {
	ArchSide          string  `json:"archSide"`
	AnteriorCrowding  float64 `json:"anteriorCrowding"`
	CurveOfSpee       float64 `json:"curveOfSpee"`
	Midline           float64 `json:"midline"`
	IncisorPosition   float64 `json:"incisorPosition"`
	Initial           float64 `json:"initial"`
	Stripping         float64 `json:"stripping"`
	Expansion         float64 `json:"expansion"`
	Distalization     float64 `json:"distalization"`
	Extraction        float64 `json:"extraction"`
	Growth            float64 `json:"growth"`
	TotalGained       float64 `json:"totalGained"`
	Remaining         float64 `json:"remaining"`
	Status            string  `json:"status"`
	StatusDescription string  `json:"statusDescription"`
}

type movementPayload struct {
	Arch             string  `json:"arch"`
	RightMolar       float64 `json:"r6"`
	RightCanine      float64 `json:"r3"`
	Incisor          float64 `json:"inc"`
	LeftCanine       float64 `json:"l3"`
	LeftMolar        float64 `json:"l6"`
	RightRegime      string  `json:"rightRegime"`
	LeftRegime       string  `json:"leftRegime"`
	MidlineCorrected bool    `json:"midlineCorrected"`
}

type midlinesPayload struct {
	UpperDental   *float64 `json:"upperDental,omitempty"`
	LowerDental   *float64 `json:"lowerDental,omitempty"`
	LowerSkeletal *float64 `json:"lowerSkeletal,omitempty"`
	LowerDelta    *float64 `json:"lowerDelta,omitempty"`
}

func (h *handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing case file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handlePlan"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read case: %v", err))
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err))
		return
	}

	h.runPlan(w, configBytes, configMap, start, "server.handlePlan")
}

func (h *handler) handleConfiguredPlan(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfiguredPlan"
	start := time.Now()

	if h.caseFile == "" {
		h.respondErrorWithOp(w, http.StatusNotFound, "no case file configured", op)
		return
	}

	configBytes, err := os.ReadFile(h.caseFile)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read case: %v", err), op)
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runPlan(w, configBytes, configMap, start, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handlePlanEditor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	configPayload, ok := h.decodeConfigPayload(w, r, "server.handlePlanEditor")
	if !ok {
		return
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handlePlanEditor")
		return
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), "server.handlePlanEditor")
		return
	}

	h.runPlan(w, configBytes, configMap, start, "server.handlePlanEditor")
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = h.exportFormat
	}
	if err := validation.ValidateExportFormat(format); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	payload, ok := h.decodeConfigPayload(w, r, op)
	if !ok {
		return
	}

	if format == constants.ExportFormatTOML {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(payload); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{
			"configToml": buf.String(),
		})
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// decodeConfigPayload reads a JSON body and unwraps an optional top-level
// "config" object. It writes the error response itself when ok is false.
func (h *handler) decodeConfigPayload(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, false
		}
		return cfgMap, true
	}
	return payload, true
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "common"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) runPlan(w http.ResponseWriter, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	results, err := vto.GetPlans(h.logger, *cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vtoerr.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		h.respondErrorWithOp(w, status, fmt.Sprintf("failed to compute plan: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := planResponse{
		ID:         uuid.NewString(),
		Scenarios:  extractScenarioNames(results),
		Plans:      buildPlans(results),
		CSV:        output.CsvString(results),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("plan computed",
		zap.String("op", op),
		zap.String("id", response.ID),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handlePlan")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("plan request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func extractScenarioNames(results []vto.Plan) []string {
	names := make([]string, 0, len(results))
	for _, scenario := range results {
		names = append(names, scenario.Name)
	}
	return names
}

func buildPlans(results []vto.Plan) []planPayload {
	plans := make([]planPayload, 0, len(results))
	for _, result := range results {
		p := planPayload{
			Name:           result.Name,
			Patient:        result.Patient,
			IncludeGrowth:  result.IncludeGrowth,
			DurationMonths: result.DurationMonths,
			TreatToRight:   string(result.GoalRight),
			TreatToLeft:    string(result.GoalLeft),
			InitialPositions: positionsPayload{
				R6: result.InitialPositions.R6,
				L6: result.InitialPositions.L6,
				D:  result.InitialPositions.D,
				S:  result.InitialPositions.S,
			},
			Growth: growthPayload{
				SagittalMM:        result.Growth.SagittalMM,
				VerticalMM:        result.Growth.VerticalMM,
				TransverseMM:      result.Growth.TransverseMM,
				UpperSpaceEquivMM: result.Growth.UpperSpaceEquivMM,
				LowerSpaceEquivMM: result.Growth.LowerSpaceEquivMM,
			},
			GrowthEntered: result.GrowthEntered,
			Midlines: midlinesPayload{
				UpperDental:   result.Midlines.UpperDental,
				LowerDental:   result.Midlines.LowerDental,
				LowerSkeletal: result.Midlines.LowerSkeletal,
				LowerDelta:    result.Midlines.LowerDelta,
			},
		}

		for _, entry := range result.Ledger {
			p.Ledger = append(p.Ledger, ledgerPayload{
				ArchSide:          entry.ArchSide.String(),
				AnteriorCrowding:  entry.Components.AnteriorCrowding,
				CurveOfSpee:       entry.Components.CurveOfSpee,
				Midline:           entry.Components.Midline,
				IncisorPosition:   entry.Components.IncisorPosition,
				Initial:           entry.Initial,
				Stripping:         entry.Gained.Stripping,
				Expansion:         entry.Gained.Expansion,
				Distalization:     entry.Gained.Distalization,
				Extraction:        entry.Gained.Extraction,
				Growth:            entry.Growth,
				TotalGained:       entry.TotalGained,
				Remaining:         entry.Remaining,
				Status:            string(entry.Status),
				StatusDescription: entry.Status.Description(),
			})
		}

		for _, arch := range []ledger.Arch{ledger.ArchUpper, ledger.ArchLower} {
			m := result.Movement(arch)
			p.Movement = append(p.Movement, movementPayload{
				Arch:             string(arch),
				RightMolar:       m.RightMolar,
				RightCanine:      m.RightCanine,
				Incisor:          m.Incisor,
				LeftCanine:       m.LeftCanine,
				LeftMolar:        m.LeftMolar,
				RightRegime:      m.RightRegime.String(),
				LeftRegime:       m.LeftRegime.String(),
				MidlineCorrected: m.MidlineCorrected,
			})
		}

		plans = append(plans, p)
	}
	return plans
}

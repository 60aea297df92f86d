package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/agrimet/crop-alert-service/internal/channel"
	"github.com/agrimet/crop-alert-service/internal/domain"
	"github.com/agrimet/crop-alert-service/internal/export"
	"github.com/agrimet/crop-alert-service/internal/pipeline"
)

// workflowRequest is the POST /api/run-workflow body. Village is optional.
type workflowRequest struct {
	State    string `json:"state"`
	District string `json:"district"`
	Village  string `json:"village,omitempty"`
}

// workflowResponse carries the alert, every channel rendering, and a CSV
// export of the run.
type workflowResponse struct {
	Alert     domain.AlertRecord `json:"alert"`
	Channels  channelPayloads    `json:"channels"`
	CSVExport string             `json:"csv_export"`
}

type channelPayloads struct {
	SMS      string                  `json:"sms"`
	WhatsApp channel.WhatsAppMessage `json:"whatsapp"`
	USSD     string                  `json:"ussd"`
	IVR      []channel.IVRLine       `json:"ivr"`
	Telegram channel.TelegramMessage `json:"telegram"`
}

func (s *Server) handleRunWorkflow(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.State == "" || req.District == "" {
		writeError(w, http.StatusBadRequest, "state and district are required")
		return
	}

	record, err := s.generator.Generate(r.Context(), pipeline.Request{
		State:    req.State,
		District: req.District,
		Village:  req.Village,
	})
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrLocationNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrWeatherUnavailable):
			status = http.StatusBadGateway
		}
		writeError(w, status, err.Error())
		return
	}

	payloads := renderChannels(record, s)

	csvOut, err := export.CSV(record, []export.ChannelResponse{
		{Channel: "SMS Agent", Rendered: payloads.SMS},
		{Channel: "WhatsApp Agent", Rendered: payloads.WhatsApp.Text},
		{Channel: "USSD Agent", Rendered: payloads.USSD},
		{Channel: "IVR Agent", Rendered: renderIVRText(payloads.IVR)},
		{Channel: "Telegram Agent", Rendered: payloads.Telegram.Text},
	})
	if err != nil {
		s.logger.Error("csv export failed", "error", err, "alert_id", record.AlertID)
	}

	writeJSON(w, http.StatusOK, workflowResponse{
		Alert:     record,
		Channels:  payloads,
		CSVExport: csvOut,
	})
}

func renderChannels(record domain.AlertRecord, s *Server) channelPayloads {
	for _, name := range []string{"sms", "whatsapp", "ussd", "ivr", "telegram"} {
		s.metrics.ChannelRenders.WithLabelValues(name).Inc()
	}
	return channelPayloads{
		SMS:      channel.SMS(record),
		WhatsApp: channel.WhatsApp(record),
		USSD:     channel.USSDMenu(record),
		IVR:      channel.IVRScript(record),
		Telegram: channel.Telegram(record),
	}
}

func renderIVRText(script []channel.IVRLine) string {
	var out string
	for i, line := range script {
		if i > 0 {
			out += " "
		}
		out += line.Text
	}
	return out
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	state := r.PathValue("state")
	districts := s.directory.Districts(state)
	if len(districts) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no districts known for state %q", state))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":     state,
		"districts": districts,
	})
}

func (s *Server) handleVillages(w http.ResponseWriter, r *http.Request) {
	state := r.PathValue("state")
	district := r.PathValue("district")
	villages := s.directory.Villages(state, district)
	if len(villages) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no villages known for %s, %s", district, state))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state":    state,
		"district": district,
		"villages": villages,
	})
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	names := domain.CropNames()
	crops := make([]domain.CropDefinition, 0, len(names))
	for _, name := range names {
		def, _ := domain.LookupCrop(name)
		crops = append(crops, def)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"crops":  crops,
		"season": domain.ClassifySeason(domain.Now().Month()),
	})
}

func (s *Server) handleCrop(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("crop")
	def, ok := domain.LookupCrop(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown crop %q", name))
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// handleWeather is a raw passthrough to the weather provider, handy for
// debugging coordinate issues without generating an alert.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.PathValue("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid latitude")
		return
	}
	lon, err := strconv.ParseFloat(r.PathValue("lon"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid longitude")
		return
	}

	current, err := s.weather.CurrentWeather(r.Context(), lat, lon)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	forecast, err := s.weather.Forecast(r.Context(), lat, lon, 3)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	obs := domain.NewWeatherObservation(current.TemperatureC, current.WindSpeedKmh, forecast.DailyPrecipitationMm)
	writeJSON(w, http.StatusOK, map[string]any{
		"latitude":          lat,
		"longitude":         lon,
		"temperature":       obs.TemperatureC,
		"wind_speed":        obs.WindSpeedKmh,
		"rainfall_3day":     obs.PrecipitationNext3DaysMm,
		"rain_probability":  domain.RainProbability(obs.PrecipitationNext3DaysMm),
		"humidity_estimate": domain.EstimatedHumidity(obs.PrecipitationNext3DaysMm),
	})
}

// decodeAlert reads the AlertRecord body shared by the /a2a endpoints.
func decodeAlert(w http.ResponseWriter, r *http.Request) (domain.AlertRecord, bool) {
	var record domain.AlertRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeError(w, http.StatusBadRequest, "invalid alert body: "+err.Error())
		return domain.AlertRecord{}, false
	}
	if record.AlertID == "" {
		writeError(w, http.StatusBadRequest, "alert_id is required")
		return domain.AlertRecord{}, false
	}
	return record, true
}

func (s *Server) handleSMS(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeAlert(w, r)
	if !ok {
		return
	}
	s.metrics.ChannelRenders.WithLabelValues("sms").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": channel.SMS(record)})
}

func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeAlert(w, r)
	if !ok {
		return
	}
	s.metrics.ChannelRenders.WithLabelValues("whatsapp").Inc()
	writeJSON(w, http.StatusOK, channel.WhatsApp(record))
}

func (s *Server) handleUSSD(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeAlert(w, r)
	if !ok {
		return
	}
	s.metrics.ChannelRenders.WithLabelValues("ussd").Inc()

	if choiceStr := r.URL.Query().Get("choice"); choiceStr != "" {
		choice, err := strconv.Atoi(choiceStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid choice")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"menu": channel.USSDSubmenu(record, choice)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"menu": channel.USSDMenu(record)})
}

func (s *Server) handleIVR(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeAlert(w, r)
	if !ok {
		return
	}
	s.metrics.ChannelRenders.WithLabelValues("ivr").Inc()

	if r.URL.Query().Get("submenu") == "true" {
		writeJSON(w, http.StatusOK, map[string]any{"script": channel.IVRSubmenuScript(record)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"script": channel.IVRScript(record)})
}

func (s *Server) handleTelegram(w http.ResponseWriter, r *http.Request) {
	record, ok := decodeAlert(w, r)
	if !ok {
		return
	}
	s.metrics.ChannelRenders.WithLabelValues("telegram").Inc()
	writeJSON(w, http.StatusOK, channel.Telegram(record))
}

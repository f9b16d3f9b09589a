package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/deepakkt/bitsaiml-mlops-group-114/internal/data"
)

// PredictRequest is one patient record. Every field is required; pointers
// distinguish absent fields from zero values. Categorical features arrive as
// the dataset's integer codes.
type PredictRequest struct {
	Age      *float64 `json:"age"`
	Sex      *int     `json:"sex"`
	CP       *int     `json:"cp"`
	Trestbps *float64 `json:"trestbps"`
	Chol     *float64 `json:"chol"`
	FBS      *int     `json:"fbs"`
	Restecg  *int     `json:"restecg"`
	Thalach  *float64 `json:"thalach"`
	Exang    *int     `json:"exang"`
	Oldpeak  *float64 `json:"oldpeak"`
	Slope    *int     `json:"slope"`
	CA       *int     `json:"ca"`
	Thal     *int     `json:"thal"`
}

// MissingFields lists absent fields in canonical column order.
func (req *PredictRequest) MissingFields() []string {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("age", req.Age != nil)
	check("sex", req.Sex != nil)
	check("cp", req.CP != nil)
	check("trestbps", req.Trestbps != nil)
	check("chol", req.Chol != nil)
	check("fbs", req.FBS != nil)
	check("restecg", req.Restecg != nil)
	check("thalach", req.Thalach != nil)
	check("exang", req.Exang != nil)
	check("oldpeak", req.Oldpeak != nil)
	check("slope", req.Slope != nil)
	check("ca", req.CA != nil)
	check("thal", req.Thal != nil)
	return missing
}

// Dataset builds a single-row dataset in the canonical feature order.
func (req *PredictRequest) Dataset() *data.Dataset {
	row := []decimal.Decimal{
		decimal.NewFromFloat(*req.Age),
		decimal.NewFromInt(int64(*req.Sex)),
		decimal.NewFromInt(int64(*req.CP)),
		decimal.NewFromFloat(*req.Trestbps),
		decimal.NewFromFloat(*req.Chol),
		decimal.NewFromInt(int64(*req.FBS)),
		decimal.NewFromInt(int64(*req.Restecg)),
		decimal.NewFromFloat(*req.Thalach),
		decimal.NewFromInt(int64(*req.Exang)),
		decimal.NewFromFloat(*req.Oldpeak),
		decimal.NewFromInt(int64(*req.Slope)),
		decimal.NewFromInt(int64(*req.CA)),
		decimal.NewFromInt(int64(*req.Thal)),
	}
	return &data.Dataset{
		Columns: append([]string{}, data.FeatureColumns...),
		X:       [][]decimal.Decimal{row},
		Y:       []int{0},
	}
}

type healthResponse struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion string `json:"model_version,omitempty"`
	RunID        string `json:"run_id,omitempty"`
}

type predictResponse struct {
	Prediction   int     `json:"prediction"`
	Probability  float64 `json:"probability"`
	ModelVersion string  `json:"model_version"`
	RunID        string  `json:"run_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getHealth(c echo.Context) error {
	resp := healthResponse{Status: "ok"}
	if model := s.state.Current(); model != nil {
		resp.ModelLoaded = true
		resp.ModelVersion = model.Meta.ModelName
		resp.RunID = model.Meta.RunID
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) postPredict(c echo.Context) error {
	model := s.state.Current()
	if model == nil {
		return c.JSON(http.StatusServiceUnavailable,
			errorResponse{Error: "no model loaded"})
	}

	var req PredictRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest,
			errorResponse{Error: "invalid request body"})
	}
	if missing := req.MissingFields(); len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error: fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")),
		})
	}

	ds := req.Dataset()
	preds, err := model.Pipeline.Predict(ds)
	if err != nil {
		return fmt.Errorf("predicting: %w", err)
	}

	// Estimators without probabilities fall back to the hard prediction.
	probability := float64(preds[0])
	if scores, err := model.Pipeline.PositiveProba(ds); err == nil && scores != nil {
		probability = scores[0]
	}

	return c.JSON(http.StatusOK, predictResponse{
		Prediction:   preds[0],
		Probability:  probability,
		ModelVersion: model.Meta.ModelName,
		RunID:        model.Meta.RunID,
	})
}

// Package home serves the public marketing page and the tour request form
// behind its hero button.
package home

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/ezraportal/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ezraportal/internal/app/system/inputval"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

type hero struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ButtonText string `json:"buttonText"`
	TourPath   string `json:"tourPath"`
}

type feature struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type faq struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type homeData struct {
	viewdata.BaseVM
	Hero     hero      `json:"hero"`
	Features []feature `json:"features"`
	FAQs     []faq     `json:"faqs"`
}

var features = []feature{
	{
		Title:       "Smart Door Locks",
		Icon:        "lock",
		Description: "Access your apartment securely through our mobile app. Grant temporary access to guests or maintenance with just a tap.",
	},
	{
		Title:       "Smart Package Lockers",
		Icon:        "inbox",
		Description: "Never miss a delivery with our secure smart lockers. Receive instant notifications when packages arrive.",
	},
	{
		Title:       "Guest Parking Management",
		Icon:        "car",
		Description: "Easily register guest vehicles and manage parking permits through our convenient digital system.",
	},
	{
		Title:       "Resident Portal",
		Icon:        "mobile",
		Description: "Manage your entire resident experience from our website - pay rent, submit maintenance requests, and control smart home features.",
	},
}

var faqs = []faq{
	{
		Question: "What is the lease length?",
		Answer:   "We offer flexible lease terms starting from 6 months, with standard 12-month leases. Multi-year leases up to 3 years are available with additional incentives.",
	},
	{
		Question: "Do you have mailboxes?",
		Answer:   "Yes! We provide secure smart package lockers with instant notifications when deliveries arrive. No more missed packages or waiting for mail.",
	},
	{
		Question: "Why EZRA?",
		Answer:   "EZRA combines modern smart home technology with exceptional resident services. Our integrated platform makes managing your living experience seamless and secure.",
	},
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	viewdata.JSON(w, http.StatusOK, homeData{
		BaseVM: viewdata.NewBaseVM(r, "Welcome to EZRA Apartments"),
		Hero: hero{
			Title:      "Welcome to EZRA Apartments",
			Subtitle:   "Get ahead in life with your own place!",
			ButtonText: "Contact us for a tour!",
			TourPath:   "/api/tour",
		},
		Features: features,
		FAQs:     faqs,
	})
}

// TourRequest is what a prospective tenant submits from the hero form.
type TourRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Validate checks and cleans a tour request.
func (t TourRequest) Validate() (TourRequest, error) {
	t.Name = htmlsanitize.PlainText(t.Name)
	t.Phone = htmlsanitize.PlainText(t.Phone)

	var c inputval.Checker
	c.Length("name", t.Name, "Name", 1, 100)
	c.Email("email", t.Email, "Email")
	c.Length("phone", t.Phone, "Phone number", 7, 30)
	if err := c.Err(); err != nil {
		return t, err
	}
	return t, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/tour – schedule-a-tour form                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeTour(w http.ResponseWriter, r *http.Request) {
	var req TourRequest
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		viewdata.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req, err := req.Validate()
	if err != nil {
		ve, _ := inputval.AsValidation(err)
		viewdata.JSON(w, http.StatusUnprocessableEntity, viewdata.ErrorVM{
			Error:  "Please correct the highlighted fields.",
			Fields: ve.Fields,
		})
		return
	}

	ref := uuid.NewString()
	h.Log.Info("tour requested",
		zap.String("ref", ref),
		zap.String("name", req.Name),
		zap.String("email", req.Email),
		zap.String("phone", req.Phone))
	viewdata.JSON(w, http.StatusAccepted, map[string]string{
		"ref":     ref,
		"message": "Thanks for your interest in EZRA Apartments! We will reach out to schedule your tour.",
	})
}

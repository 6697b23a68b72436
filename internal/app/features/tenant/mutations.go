// internal/app/features/tenant/mutations.go
package tenant

import (
	"net/http"
	"strings"

	errorsfeature "github.com/dalemusser/ezraportal/internal/app/features/errors"
	"github.com/dalemusser/ezraportal/internal/app/system/auth"
	"github.com/dalemusser/ezraportal/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ezraportal/internal/app/system/inputval"
	"github.com/dalemusser/ezraportal/internal/app/system/querycache"
	"github.com/dalemusser/ezraportal/internal/app/system/timeouts"
	"github.com/dalemusser/ezraportal/internal/app/system/viewdata"
	"github.com/dalemusser/ezraportal/internal/domain/models"
	"go.uber.org/zap"
)

// Complaint field limits.
const (
	TitleMin       = 3
	TitleMax       = 50
	DescriptionMin = 5
	DescriptionMax = 500
)

// ValidateComplaint cleans nc and checks it.
func ValidateComplaint(nc models.NewComplaint) (models.NewComplaint, error) {
	nc.Title = htmlsanitize.PlainText(nc.Title)
	nc.Description = htmlsanitize.PlainText(nc.Description)
	nc.Category = strings.TrimSpace(nc.Category)

	var vc inputval.Checker
	vc.Length("title", nc.Title, "Title", TitleMin, TitleMax)
	vc.Length("description", nc.Description, "Description", DescriptionMin, DescriptionMax)
	vc.OneOf("category", nc.Category, "Category", models.ComplaintCategories)
	return nc, vc.Err()
}

// ValidateParkingPermit cleans p and checks that every field is present.
func ValidateParkingPermit(p models.NewParkingPermit) (models.NewParkingPermit, error) {
	p.Name = htmlsanitize.PlainText(p.Name)
	p.CarColor = htmlsanitize.PlainText(p.CarColor)
	p.CarModel = htmlsanitize.PlainText(p.CarModel)
	p.LicensePlateNumber = strings.ToUpper(htmlsanitize.PlainText(p.LicensePlateNumber))

	var vc inputval.Checker
	vc.Required("name", p.Name, "Guest name")
	vc.Required("car-color", p.CarColor, "Car color")
	vc.Required("car-model", p.CarModel, "Car model")
	vc.Required("license-plate-number", p.LicensePlateNumber, "License plate number")
	return p, vc.Err()
}

// CreateComplaint serves POST /tenant/api/complaints.
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)

	var in models.NewComplaint
	if err := decode(w, r, &in); err != nil {
		viewdata.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	nc, err := ValidateComplaint(in)
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "file your complaint", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create complaint")
	defer cancel()
	if err := h.API.CreateComplaint(ctx, sess.TokenSource(), nc); err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "file your complaint", err)
		return
	}

	h.Cache.Invalidate(querycache.ComplaintsKey(sess.Subject))
	h.Log.Info("complaint filed", zap.String("subject", sess.Subject), zap.String("category", nc.Category))
	viewdata.JSON(w, http.StatusCreated, result{OK: true, Message: "Complaint submitted successfully"})
}

// CreateParkingPermit serves POST /tenant/api/parking.
func (h *Handler) CreateParkingPermit(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)

	var in models.NewParkingPermit
	if err := decode(w, r, &in); err != nil {
		viewdata.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	p, err := ValidateParkingPermit(in)
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "add a guest parking permit", err)
		return
	}

	permits, err := h.Agg.Parking(r.Context(), sess)
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "add a guest parking permit", err)
		return
	}
	if len(permits) >= models.MaxGuestParkingPermits {
		viewdata.Error(w, http.StatusConflict, "You have reached the limit of guest parking permits.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create parking permit")
	defer cancel()
	if err := h.API.CreateParkingPermit(ctx, sess.TokenSource(), p); err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "add a guest parking permit", err)
		return
	}

	h.Cache.Invalidate(querycache.ParkingKey(sess.Subject))
	viewdata.JSON(w, http.StatusCreated, result{OK: true, Message: "Guest parking permit created"})
}

// UnlockLocker serves POST /tenant/api/lockers/unlock. With no packages
// waiting the request is refused without calling the EZRA API.
func (h *Handler) UnlockLocker(w http.ResponseWriter, r *http.Request) {
	sess := auth.CurrentSession(r)

	lockers, err := h.Agg.Lockers(r.Context(), sess)
	if err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "open your locker", err)
		return
	}
	if len(lockers) == 0 {
		viewdata.Error(w, http.StatusConflict, "There are no packages waiting for you.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "unlock locker")
	defer cancel()
	if err := h.API.UnlockLocker(ctx, sess.TokenSource()); err != nil {
		errorsfeature.RenderFailure(w, r, h.Log, "open your locker", err)
		return
	}

	h.Cache.Invalidate(querycache.LockersKey(sess.Subject))
	viewdata.JSON(w, http.StatusOK, result{OK: true, Message: "Locker opened"})
}

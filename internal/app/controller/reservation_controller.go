package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReservationController struct {
	reservationService service.ReservationService
	now                func() time.Time
}

func NewReservationController(reservationService service.ReservationService) *ReservationController {
	return &ReservationController{reservationService: reservationService, now: time.Now}
}

type ChangeStatusRequest struct {
	Status model.ReservationStatus `json:"status" binding:"required"`
}

// Summary feeds the pending/upcoming cards returned alongside the admin list
func (ctrl *ReservationController) Summary() (gin.H, error) {
	summary, err := ctrl.reservationService.Summary(ctrl.now().Format(service.DateLayout))
	if err != nil {
		return nil, err
	}
	return gin.H{"summary": summary}, nil
}

// ChangeStatus PATCH /admin/reservations/:id/status
func (ctrl *ReservationController) ChangeStatus(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "status is required")
		return
	}

	reservation, err := ctrl.reservationService.ChangeStatus(session, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			apperrors.RespondWithValidationError(c, map[string]string{"status": "must be pending, confirmed, cancelled or completed"})
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.BadRequest(c, apperrors.ReservationInvalidTransition, err.Error())
		case errors.Is(err, service.ErrTransitionConflict):
			apperrors.Conflict(c, apperrors.ReservationTransitionConflict, "This reservation was updated by someone else. Refresh and try again")
		default:
			respondError(c, err, "update reservation status")
		}
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// Export GET /admin/reservations/export
func (ctrl *ReservationController) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := ctrl.reservationService.ExportXLSX(&buf); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to export reservations", err)
		respondError(c, err, "list reservations")
		return
	}

	filename := fmt.Sprintf("reservations-%s.xlsx", ctrl.now().Format(service.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

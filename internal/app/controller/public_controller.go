package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/internal/middleware"
	"github.com/riadice/riadice-backend/pkg/whatsapp"
)

// ReservationLinkController builds the WhatsApp reservation link for the public site.
type ReservationLinkController struct {
	composer *whatsapp.Composer
}

func NewReservationLinkController(composer *whatsapp.Composer) *ReservationLinkController {
	return &ReservationLinkController{composer: composer}
}

func draftFromQuery(c *gin.Context) (whatsapp.Draft, error) {
	draft := whatsapp.Draft{
		Time: c.Query("time"),
		Date: c.Query("date"),
		Name: c.Query("name"),
		Note: c.Query("note"),
	}
	if g := c.Query("guests"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil || n <= 0 {
			return draft, whatsapp.ErrInvalidGuests
		}
		draft.Guests = n
	}
	return draft, nil
}

func (ctrl *ReservationLinkController) respondDraftError(c *gin.Context, err error) {
	if errors.Is(err, whatsapp.ErrInvalidGuests) {
		apperrors.RespondWithValidationError(c, map[string]string{"guests": "must be a positive number"})
		return
	}
	middleware.GetLoggerFromContext(c).Error("Failed to compose reservation link", err)
	apperrors.InternalError(c, "")
}

// Link GET /api/v1/public/reservation-link?guests&time&date&name&note
func (ctrl *ReservationLinkController) Link(c *gin.Context) {
	draft, err := draftFromQuery(c)
	if err != nil {
		ctrl.respondDraftError(c, err)
		return
	}
	link, err := ctrl.composer.Compose(draft)
	if err != nil {
		ctrl.respondDraftError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// Reserve GET /reserve redirects straight to WhatsApp
func (ctrl *ReservationLinkController) Reserve(c *gin.Context) {
	draft, err := draftFromQuery(c)
	if err != nil {
		ctrl.respondDraftError(c, err)
		return
	}
	if _, err := ctrl.composer.Open(draft, whatsapp.RedirectOpener{W: c.Writer, R: c.Request}); err != nil {
		ctrl.respondDraftError(c, err)
	}
}

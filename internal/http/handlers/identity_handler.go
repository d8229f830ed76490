// Identity HTTP handlers.
//
//   - POST /identities        (register)
//   - GET  /identities?email= (lookup)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-barber-booking/internal/services"
)

// RegisterIdentity godoc
// @ID          registerIdentity
// @Summary     Register an identity
// @Description Registers a customer by email. Booking requires a registered email.
// @Tags        Identities
// @Accept      json
// @Produce     json
//
// @Param       body  body  services.RegisterRequest  true  "Registration form"
//
// @Success     201  {object}  domain.Identity
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid fields"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Router      /identities [post]
func (h *Handlers) RegisterIdentity(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	id, err := h.idSvc.Register(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusCreated, id)
}

// FindIdentity godoc
// @ID          findIdentity
// @Summary     Look up an identity by email
// @Tags        Identities
// @Produce     json
//
// @Param       email  query  string  true  "Email (case-insensitive)"  example(jane@example.com)
//
// @Success     200  {object}  domain.Identity
// @Failure     400  {object}  handlers.ErrorResponse  "Missing email"
// @Failure     404  {object}  handlers.ErrorResponse  "Not registered"
// @Router      /identities [get]
func (h *Handlers) FindIdentity(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		failFields(c, http.StatusBadRequest, ErrCodeValidation, "request has invalid fields",
			map[string]string{"email": "is required"})
		return
	}

	id, err := h.idSvc.FindByEmail(c.Request.Context(), email)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, id)
}

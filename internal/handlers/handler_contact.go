package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_split_app/internal/core/ports/services"
	"github.com/SscSPs/expense_split_app/internal/dto"
	"github.com/SscSPs/expense_split_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// contactHandler handles the authenticated user's saved contacts.
type contactHandler struct {
	contactService portssvc.ContactSvcFacade
}

func newContactHandler(cs portssvc.ContactSvcFacade) *contactHandler {
	return &contactHandler{contactService: cs}
}

func registerContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	h := newContactHandler(contactService)

	contacts := rg.Group("/contacts")
	{
		contacts.GET("", h.listContacts)
		contacts.POST("", h.upsertContact)
		contacts.PUT("/:id", h.updateContact)
		contacts.DELETE("/:id", h.deleteContact)
	}
}

// listContacts godoc
// @Summary List contacts
// @Tags contacts
// @Produce json
// @Success 200 {array} dto.ContactResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list contacts"
// @Security BearerAuth
// @Router /contacts [get]
func (h *contactHandler) listContacts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	contacts, err := h.contactService.ListContacts(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list contacts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListContactResponse(contacts))
}

// upsertContact godoc
// @Summary Save a contact
// @Description Saves the user with the given email as a contact, creating a placeholder user if nobody
// @Description has signed in with that email yet. Saving an existing contact updates its nickname.
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body dto.UpsertContactRequest true "Contact details"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to save contact"
// @Security BearerAuth
// @Router /contacts [post]
func (h *contactHandler) upsertContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpsertContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for upsert contact request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	contact, err := h.contactService.UpsertContact(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to save contact")
		return
	}

	logger.Info("Contact saved", slog.String("contact_id", contact.ContactID))
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

// updateContact godoc
// @Summary Rename a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param contact body dto.UpdateContactRequest true "New nickname"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Contact not found"
// @Failure 500 {object} ErrorResponse "Failed to update contact"
// @Security BearerAuth
// @Router /contacts/{id} [put]
func (h *contactHandler) updateContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	contactID := c.Param("id")

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	contact, err := h.contactService.UpdateContactNickname(c.Request.Context(), userID, contactID, req)
	if err != nil {
		respondWithError(c, logger.With(slog.String("contact_id", contactID)), err, "Failed to update contact")
		return
	}

	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

// deleteContact godoc
// @Summary Delete a contact
// @Description Removes the contact from the list. Expenses and loans shared with the user are kept.
// @Tags contacts
// @Param id path string true "Contact ID"
// @Success 204 "Contact deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Contact not found"
// @Failure 500 {object} ErrorResponse "Failed to delete contact"
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *contactHandler) deleteContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	contactID := c.Param("id")

	if err := h.contactService.DeleteContact(c.Request.Context(), userID, contactID); err != nil {
		respondWithError(c, logger.With(slog.String("contact_id", contactID)), err, "Failed to delete contact")
		return
	}

	c.Status(http.StatusNoContent)
}

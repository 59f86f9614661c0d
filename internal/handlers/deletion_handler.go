package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/usecase/deletion"
)

// DeletionHandler exposes the two-step deletion workflow: staff file a
// request, owners resolve it. Privileged roles can also delete directly.
type DeletionHandler struct {
	request     *deletion.RequestDeletion
	directDel   *deletion.DirectDelete
	approve     *deletion.ApproveDeletion
	deny        *deletion.DenyDeletion
	listPending *deletion.ListPending
}

func NewDeletionHandler(
	request *deletion.RequestDeletion,
	directDel *deletion.DirectDelete,
	approve *deletion.ApproveDeletion,
	deny *deletion.DenyDeletion,
	listPending *deletion.ListPending,
) *DeletionHandler {
	return &DeletionHandler{
		request:     request,
		directDel:   directDel,
		approve:     approve,
		deny:        deny,
		listPending: listPending,
	}
}

func (h *DeletionHandler) RequestDeletion(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	patientID, ok := paramID(c, "id", "invalid_patient_id", "Invalid patient id.")
	if !ok {
		return
	}

	req, err := h.request.Execute(c.Request.Context(), actor, patientID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"message": "Deletion request submitted. An owner must approve it.",
		"request": req,
	})
}

func (h *DeletionHandler) DeletePatient(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	patientID, ok := paramID(c, "id", "invalid_patient_id", "Invalid patient id.")
	if !ok {
		return
	}

	if err := h.directDel.Execute(c.Request.Context(), actor, patientID); err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Message(c, "Patient deleted.")
}

func (h *DeletionHandler) ListPending(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	rows, err := h.listPending.Execute(c.Request.Context(), actor, c.Query("search"))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *DeletionHandler) Approve(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	requestID, ok := paramID(c, "id", "invalid_request_id", "Invalid request id.")
	if !ok {
		return
	}

	req, err := h.approve.Execute(c.Request.Context(), actor, requestID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Deletion request approved.",
		"request": req,
	})
}

func (h *DeletionHandler) Deny(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	requestID, ok := paramID(c, "id", "invalid_request_id", "Invalid request id.")
	if !ok {
		return
	}

	req, err := h.deny.Execute(c.Request.Context(), actor, requestID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"message": "Deletion request denied.",
		"request": req,
	})
}

func paramID(c *gin.Context, name, code, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		httperr.BadRequest(c, code, message)
		return 0, false
	}
	return uint(id), true
}

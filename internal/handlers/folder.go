package handlers

import (
	"github.com/koesnuj/portfolio-sub001/internal/models"
	"github.com/koesnuj/portfolio-sub001/internal/services"
	"github.com/koesnuj/portfolio-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type FolderHandler struct {
	folderService *services.FolderService
}

func NewFolderHandler(folderService *services.FolderService) *FolderHandler {
	return &FolderHandler{folderService: folderService}
}

func (h *FolderHandler) GetTree(c *gin.Context) {
	tree, err := h.folderService.GetTree(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, tree)
}

func (h *FolderHandler) CreateFolder(c *gin.Context) {
	var req models.FolderCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	folder, err := h.folderService.CreateFolder(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Created(c, folder)
}

func (h *FolderHandler) RenameFolder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.FolderRenameRequest
	if !bindJSON(c, &req) {
		return
	}

	folder, err := h.folderService.RenameFolder(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, folder)
}

func (h *FolderHandler) MoveFolder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.FolderMoveRequest
	if !bindJSON(c, &req) {
		return
	}

	folder, err := h.folderService.MoveFolder(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, folder)
}

func (h *FolderHandler) ReorderFolders(c *gin.Context) {
	var req models.FolderReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.folderService.ReorderFolders(c.Request.Context(), req.Items); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "folders reordered", nil)
}

func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := h.folderService.DeleteFolder(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "folder deleted", result)
}

func (h *FolderHandler) BulkDeleteFolders(c *gin.Context) {
	var req models.BulkDeleteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.folderService.BulkDeleteFolders(c.Request.Context(), req.IDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "folders deleted", result)
}

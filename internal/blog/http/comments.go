package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

// CommentResponse is the plaintext comment representation.
type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Creator   string    `json:"creator"`
	ParentID  string    `json:"parentId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCommentResponse(c domain.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Creator:   c.CreatorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ParentID != nil {
		resp.ParentID = *c.ParentID
	}
	return resp
}

type CommentsHandler struct {
	CommentService *service.CommentService
}

type commentRequest struct {
	Content string `json:"content"`
}

// HandleCreate godoc
//
//	@Summary		Comment on a post
//	@Tags			Comments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Post id"
//	@Param			body	body		commentRequest	true	"Comment content"
//	@Success		201		{object}	CommentResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/posts/{id}/comments [post].
func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Content == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Content is required.")
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	comment, err := h.CommentService.Create(r.Context(), postID, accountID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// HandleReply godoc
//
//	@Summary		Reply to a comment
//	@Tags			Comments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Parent comment id"
//	@Param			body	body		commentRequest	true	"Reply content"
//	@Success		201		{object}	CommentResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/comments/{id}/replies [post].
func (h *CommentsHandler) HandleReply(w http.ResponseWriter, r *http.Request) {
	parentID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Content == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Content is required.")
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	comment, err := h.CommentService.Reply(r.Context(), parentID, accountID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(comment))
}

// HandleList godoc
//
//	@Summary		List comments of a post
//	@Tags			Comments
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{array}		CommentResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/posts/{id}/comments [get].
func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	comments, err := h.CommentService.ListByPost(r.Context(), postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate godoc
//
//	@Summary		Update a comment
//	@Tags			Comments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Comment id"
//	@Param			body	body		commentRequest	true	"New content"
//	@Success		200		{object}	CommentResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"identical content"
//	@Failure		403		{object}	httpx.ErrorResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/comments/{id} [patch].
func (h *CommentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	comment, err := h.CommentService.Update(r.Context(), accountID, commentID, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCommentResponse(comment))
}

// HandleDelete godoc
//
//	@Summary		Delete a comment
//	@Tags			Comments
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Comment id"
//	@Success		200	{object}	map[string]string
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/comments/{id} [delete].
func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	if err := h.CommentService.Delete(r.Context(), accountID, commentID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}

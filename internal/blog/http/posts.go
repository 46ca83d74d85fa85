package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

// PostResponse is the plaintext post representation.
type PostResponse struct {
	ID           string    `json:"id"`
	Creator      string    `json:"creator"`
	Message      string    `json:"message"`
	SelectedFile string    `json:"selectedFile,omitempty"`
	Tags         []string  `json:"tags"`
	Likes        []string  `json:"likes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PostListResponse wraps a page of posts with its pagination envelope.
type PostListResponse struct {
	Posts      []PostResponse    `json:"posts"`
	Pagination domain.Pagination `json:"pagination"`
}

func toPostResponse(p domain.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	likes := p.Likes
	if likes == nil {
		likes = []string{}
	}
	return PostResponse{
		ID:           p.ID,
		Creator:      p.CreatorID,
		Message:      p.Message,
		SelectedFile: p.SelectedFile,
		Tags:         tags,
		Likes:        likes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type PostsHandler struct {
	PostService *service.PostService
}

type postRequest struct {
	Message      string   `json:"message"`
	SelectedFile string   `json:"selectedFile"`
	Tags         []string `json:"tags"`
}

// HandleCreate godoc
//
//	@Summary		Create a post
//	@Tags			Posts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		postRequest	true	"Post content"
//	@Success		201		{object}	PostResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Router			/v1/posts [post].
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Message == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Message is required.")
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	post, err := h.PostService.Create(r.Context(), accountID, req.Message, req.SelectedFile, req.Tags)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

// HandleList godoc
//
//	@Summary		List posts
//	@Description	Paginated listing, newest first by default. Public.
//	@Tags			Posts
//	@Produce		json
//	@Param			page		query		int		false	"Page number (default 1)"
//	@Param			limit		query		int		false	"Page size (default 10)"
//	@Param			sortField	query		string	false	"createdAt or updatedAt"
//	@Param			sortOrder	query		string	false	"asc or desc (default desc)"
//	@Success		200			{object}	PostListResponse
//	@Router			/v1/posts [get].
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	posts, pagination, err := h.PostService.List(r.Context(), domain.PageRequest{
		Page:      page,
		Limit:     limit,
		SortField: q.Get("sortField"),
		SortDesc:  q.Get("sortOrder") != "asc",
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, PostListResponse{Posts: out, Pagination: pagination})
}

// HandleGet godoc
//
//	@Summary		Get a post
//	@Tags			Posts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{object}	PostResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/posts/{id} [get].
func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	post, err := h.PostService.Get(r.Context(), postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleUpdate godoc
//
//	@Summary		Update a post
//	@Description	Only the creator may update; unchanged content is rejected.
//	@Tags			Posts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Post id"
//	@Param			body	body		postRequest	true	"New content"
//	@Success		200		{object}	PostResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"identical content"
//	@Failure		403		{object}	httpx.ErrorResponse	"not the creator"
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/posts/{id} [patch].
func (h *PostsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	post, err := h.PostService.Update(r.Context(), accountID, postID, req.Message, req.SelectedFile, req.Tags)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleDelete godoc
//
//	@Summary		Delete a post
//	@Tags			Posts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{object}	map[string]string
//	@Failure		403	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/posts/{id} [delete].
func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	if err := h.PostService.Delete(r.Context(), accountID, postID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Deleted successfully"})
}

// HandleLike godoc
//
//	@Summary		Toggle a like
//	@Description	Likes the post, or removes the like when already present. Mirrors into the account's favourites.
//	@Tags			Posts
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{object}	PostResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/posts/{id}/like [post].
func (h *PostsHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	accountID := httpx.AccountIDFromContext(r.Context())
	post, err := h.PostService.Like(r.Context(), accountID, postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

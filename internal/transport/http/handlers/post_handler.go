package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/example/blog-web/internal/service"
)

type PostHandler struct {
	service *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{service: svc}
}

type postForm struct {
	Title string `form:"title"`
	Text  string `form:"text"`
}

// List renders the paginated index. Unparsable or sub-1 pagination params
// fall through as 0 and are clamped by the service.
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	postsPerPage, _ := strconv.Atoi(c.Query("posts_per_page"))

	pg, err := h.service.List(c.Request.Context(), page, postsPerPage)
	if err != nil {
		h.internalError(c)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"posts":          pg.Posts,
		"page":           pg.Page,
		"posts_per_page": pg.PostsPerPage,
		"num_pages":      pg.NumPages,
		"prev_page":      pg.PrevPage,
		"next_page":      pg.NextPage,
		"has_prev":       pg.HasPrev,
		"has_next":       pg.HasNext,
	})
}

func (h *PostHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "new.html", gin.H{})
}

func (h *PostHandler) Create(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	if _, err := h.service.Create(c.Request.Context(), form.Title, form.Text); err != nil {
		h.internalError(c)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.HTML(http.StatusOK, "edit.html", gin.H{"post": post})
}

// Update takes the id from the path, never from the form body.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	if _, err := h.service.Update(c.Request.Context(), id, form.Title, form.Text); err != nil {
		h.storeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) Search(c *gin.Context) {
	q := c.Query("q")
	var results interface{}
	if q != "" {
		posts, err := h.service.Search(c.Request.Context(), q)
		if err != nil {
			h.internalError(c)
			return
		}
		results = posts
	}
	c.HTML(http.StatusOK, "search.html", gin.H{"q": q, "posts": results})
}

// NotFound renders the fallback page for unmatched routes, echoing the
// requested path.
func (h *PostHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{"uri": c.Request.URL.Path})
}

func (h *PostHandler) pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

// storeError maps a missing row to the not-found page and everything else
// to an internal error.
func (h *PostHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.NotFound(c)
		return
	}
	h.internalError(c)
}

func (h *PostHandler) internalError(c *gin.Context) {
	c.String(http.StatusInternalServerError, "internal server error")
}

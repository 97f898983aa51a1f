package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/isoclient/errors"
	"github.com/kbukum/isoclient/logger"
)

// TextBody is served by GET /text.
const TextBody = "plain text, not json"

// Options configures NewRouter.
type Options struct {
	// CSRFToken enables RequireCSRF when non-empty.
	CSRFToken string
	Store     *Store
	Logger    *logger.Logger
}

// NewRouter builds the gin engine serving the mock API.
func NewRouter(opts Options) *gin.Engine {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = NewStore(DefaultPosts()...)
	}

	engine := gin.New()
	engine.Use(recovery(log), requestLogger(log))
	if opts.CSRFToken != "" {
		engine.Use(RequireCSRF(opts.CSRFToken))
	}

	h := &handlers{store: store}
	engine.GET("/posts", h.list)
	engine.GET("/posts/:id", h.get)
	engine.POST("/posts", h.create)
	engine.PUT("/posts/:id", h.replace)
	engine.DELETE("/posts/:id", h.delete)
	engine.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, TextBody)
	})
	engine.GET("/echo", echoHeaders)
	return engine
}

type handlers struct {
	store *Store
}

func (h *handlers) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

func (h *handlers) get(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	p, found := h.store.Get(id)
	if !found {
		respondError(c, errors.NotFound("post", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) create(c *gin.Context) {
	body, post, ok := bindPost(c)
	if !ok {
		return
	}
	body["id"] = h.store.Create(post).ID
	c.JSON(http.StatusCreated, body)
}

func (h *handlers) replace(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	body, post, ok := bindPost(c)
	if !ok {
		return
	}
	if _, found := h.store.Replace(id, post); !found {
		respondError(c, errors.NotFound("post", c.Param("id")))
		return
	}
	body["id"] = id
	c.JSON(http.StatusOK, body)
}

func (h *handlers) delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if !h.store.Delete(id) {
		respondError(c, errors.NotFound("post", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// echoHeaders returns the request headers with lowercase keys. Host is
// included because net/http lifts it out of the header map.
func echoHeaders(c *gin.Context) {
	out := make(map[string]string, len(c.Request.Header)+1)
	for k, v := range c.Request.Header {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	out["host"] = c.Request.Host
	c.JSON(http.StatusOK, out)
}

func postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, errors.InvalidInput("id", "must be an integer"))
		return 0, false
	}
	return id, true
}

// bindPost keeps the raw body so unknown fields are echoed back.
func bindPost(c *gin.Context) (map[string]any, Post, bool) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, errors.InvalidInput("body", err.Error()))
		return nil, Post{}, false
	}
	if body == nil {
		body = map[string]any{}
	}
	var post Post
	raw, _ := json.Marshal(body)
	if err := json.Unmarshal(raw, &post); err != nil {
		respondError(c, errors.InvalidInput("body", err.Error()))
		return nil, Post{}, false
	}
	return body, post, true
}

func respondError(c *gin.Context, err *errors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err.ToResponse())
}

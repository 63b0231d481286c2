package anime

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"animehub/internal/dedup"
	"animehub/pkg/models"
)

type Handler struct {
	Repo   *Repo
	Engine *dedup.Engine
}

func NewHandler(repo *Repo, engine *dedup.Engine) *Handler {
	return &Handler{Repo: repo, Engine: engine}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)        // GET /anime
	rg.GET("/:id", h.getByID) // GET /anime/:id
}

// RegisterProtectedRoutes mounts the routes that require a signed-in user.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/submissions", h.submit) // POST /anime/submissions
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Q:      c.Query("q"),
		Type:   c.Query("type"),
		Year:   parseInt(c.Query("year"), 0),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}

	// genres=Action,Drama OR genres=Action&genres=Drama
	genres := c.QueryArray("genres")
	if len(genres) == 0 {
		if s := c.Query("genres"); s != "" {
			genres = strings.Split(s, ",")
		}
	}
	q.Genres = genres

	total, err := h.Repo.Count(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"})
		return
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id := c.Param("id")
	a, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

type submissionRequest struct {
	Title           string   `json:"title" binding:"required"`
	TitleEnglish    string   `json:"title_english"`
	TitleRomaji     string   `json:"title_romaji"`
	AlternateTitles []string `json:"alternate_titles"`
	Episodes        int      `json:"episodes"`
	Year            int      `json:"year"`
	Type            string   `json:"type"`
	Genres          []string `json:"genres"`
	Synopsis        string   `json:"synopsis"`
	MALID           int64    `json:"mal_id"`
	AniListID       int64    `json:"anilist_id"`
}

// submit checks a user-submitted record against the catalog. A submission
// that duplicates an existing entry is linked to it (its titles folded into
// the canonical record) instead of being inserted as a new row.
func (h *Handler) submit(c *gin.Context) {
	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec := models.AnimeRecord{
		Title:           req.Title,
		TitleEnglish:    req.TitleEnglish,
		TitleRomaji:     req.TitleRomaji,
		AlternateTitles: req.AlternateTitles,
		Episodes:        req.Episodes,
		Year:            req.Year,
		Type:            req.Type,
		Genres:          req.Genres,
		Synopsis:        req.Synopsis,
	}
	if req.MALID > 0 || req.AniListID > 0 {
		rec.ExternalIDs = map[string]int64{}
		if req.MALID > 0 {
			rec.ExternalIDs[models.SourceMAL] = req.MALID
		}
		if req.AniListID > 0 {
			rec.ExternalIDs[models.SourceAniList] = req.AniListID
		}
	}

	if _, err := h.Engine.GenerateKey(rec); err != nil {
		if errors.Is(err, dedup.ErrInvalidRecord) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record has no usable title or external id"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "key generation failed"})
		return
	}

	existing, err := h.Repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog load failed"})
		return
	}

	for _, cand := range existing {
		if !h.Engine.AreDuplicate(cand, rec) {
			continue
		}
		merged := h.Engine.Merge(cand, rec)
		merged.ID = cand.ID // the catalog row keeps its identity
		if err := h.Repo.Upsert(c.Request.Context(), merged); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "link failed"})
			return
		}
		log.Printf("[anime] submission %q linked to %s", rec.Title, cand.ID)
		c.JSON(http.StatusOK, gin.H{"linked_to": cand.ID})
		return
	}

	rec.ID = "sub-" + uuid.NewString()
	if err := h.Repo.Upsert(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "insert failed"})
		return
	}
	log.Printf("[anime] submission %q created as %s", rec.Title, rec.ID)
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// uploads.go — In-memory store for uploaded logo and background images.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxUpload limits a single uploaded image.
const maxUpload = 10 << 20

// errUnknownUpload is returned for an asset id that was never uploaded or
// has been deleted.
var errUnknownUpload = errors.New("no uploaded asset")

type upload struct {
	Name string
	Data []byte
	Mime string
	img  image.Image
}

type uploadManager struct {
	mu      sync.RWMutex
	uploads map[string]*upload
}

func newUploadManager() *uploadManager {
	return &uploadManager{uploads: make(map[string]*upload)}
}

func (um *uploadManager) add(u *upload) string {
	id := uuid.NewString()
	um.mu.Lock()
	um.uploads[id] = u
	um.mu.Unlock()
	return id
}

func (um *uploadManager) get(id string) (*upload, bool) {
	um.mu.RLock()
	u, ok := um.uploads[id]
	um.mu.RUnlock()
	return u, ok
}

func (um *uploadManager) image(id string) (image.Image, error) {
	u, ok := um.get(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", errUnknownUpload, id)
	}
	return u.img, nil
}

func (um *uploadManager) listAll() []gin.H {
	um.mu.RLock()
	defer um.mu.RUnlock()
	result := make([]gin.H, 0, len(um.uploads))
	for id, u := range um.uploads {
		result = append(result, gin.H{
			"id":   id,
			"name": u.Name,
			"mime": u.Mime,
			"size": len(u.Data),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i]["name"].(string) < result[j]["name"].(string) })
	return result
}

func (um *uploadManager) remove(id string) bool {
	um.mu.Lock()
	defer um.mu.Unlock()
	if _, ok := um.uploads[id]; !ok {
		return false
	}
	delete(um.uploads, id)
	return true
}

// ── Handlers ──

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}
	if header.Size > maxUpload {
		abort(c, http.StatusRequestEntityTooLarge, fmt.Errorf("%s exceeds %d bytes", header.Filename, maxUpload))
		return
	}
	f, err := header.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("decode %s: %w", header.Filename, err))
		return
	}
	mimeType := mime.TypeByExtension(filepath.Ext(header.Filename))
	if mimeType == "" {
		mimeType = "image/png"
	}
	id := s.uploads.add(&upload{Name: header.Filename, Data: data, Mime: mimeType, img: img})

	c.JSON(http.StatusCreated, gin.H{
		"id":   id,
		"name": header.Filename,
		"url":  "/api/assets/" + id,
	})
}

func (s *Server) handleListUploads(c *gin.Context) {
	c.JSON(http.StatusOK, s.uploads.listAll())
}

func (s *Server) handleGetUpload(c *gin.Context) {
	u, ok := s.uploads.get(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, errors.New("asset not found"))
		return
	}
	c.Data(http.StatusOK, u.Mime, u.Data)
}

func (s *Server) handleDeleteUpload(c *gin.Context) {
	id := c.Param("id")
	if !s.uploads.remove(id) {
		abort(c, http.StatusNotFound, errors.New("asset not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "id": id})
}

package handler

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// saveUpload stages a multipart file into dir and returns its local path.
// A missing file field is not an error; the empty path means "no upload".
// Callers must remove the returned file on every exit path, it only exists
// until the object-storage push completes.
func saveUpload(c echo.Context, field, dir string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.New().String()+filepath.Ext(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// removeUpload discards a staged upload, tolerating the no-upload case.
func removeUpload(path string) {
	if path != "" {
		os.Remove(path)
	}
}

// setTokenCookie attaches the bearer token as an HttpOnly cookie.
func setTokenCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   true,
	})
}

// clearTokenCookie expires the bearer cookie client side; tokens are not
// revoked server side and stay valid until expiry.
func clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
	})
}

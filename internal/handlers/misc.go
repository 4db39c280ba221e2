package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
)

type MiscHandler struct {
	QRDir string
}

// QRList names the payment QR images available under /qr. A missing
// directory is an empty list, not an error.
func (h *MiscHandler) QRList(c echo.Context) error {
	entries, err := os.ReadDir(h.QRDir)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"qrImages": []string{}})
	}
	images := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || e.IsDir() {
			continue
		}
		images = append(images, "/qr/"+e.Name())
	}
	return c.JSON(http.StatusOK, echo.Map{"qrImages": images})
}

package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTMX(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsHTMX(req))

	req.Header.Set("Hx-Request", "true")
	assert.True(t, IsHTMX(req))

	req.Header.Set("Hx-Request", "TRUE")
	assert.True(t, IsHTMX(req))

	req.Header.Set("Hx-Request", "false")
	assert.False(t, IsHTMX(req))
}

func TestWantsPartial(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, WantsPartial(req))

	req.Header.Set("Hx-Request", "true")
	assert.True(t, WantsPartial(req))
}

func TestSetHXTrigger_WithPayload(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXTrigger(w, "showToast", map[string]any{"message": "Recipe deleted.", "type": "success"})

	header := w.Header().Get("Hx-Trigger")
	assert.Contains(t, header, `"showToast"`)
	assert.Contains(t, header, `"Recipe deleted."`)
	assert.Contains(t, header, `"success"`)
}

func TestSetHXTrigger_NilPayload(t *testing.T) {
	w := httptest.NewRecorder()
	SetHXTrigger(w, "nav:activate", nil)

	assert.Equal(t, `{"nav:activate":true}`, w.Header().Get("Hx-Trigger"))
}

func TestHTMXResponse_Redirect(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Redirect("/")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "/", w.Header().Get("Hx-Redirect"))
}

func TestHTMXResponse_Chaining(t *testing.T) {
	w := httptest.NewRecorder()
	HTMX(w).Trigger("showToast", nil).PushURL("/recipes/abc")

	assert.Equal(t, `{"showToast":true}`, w.Header().Get("Hx-Trigger"))
	assert.Equal(t, "/recipes/abc", w.Header().Get("Hx-Push-Url"))
}

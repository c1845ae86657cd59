package web

import (
	"encoding/base64"
	"net/http"
	"strings"

	vm "github.com/ericfisherdev/agendahub/internal/adapter/driving/web/viewmodel"
)

const flashCookieName = "flash"

// Notification messages.
const (
	msgLoginSuccess   = "Login berhasil!"
	msgLoginFailed    = "Username atau password salah"
	msgLoginMissing   = "Username dan password harus diisi"
	msgUsernameNeeded = "Username harus diisi"
	msgPasswordNeeded = "Password harus diisi"
	msgCreateSuccess  = "Agenda berhasil ditambahkan!"
	msgCreateFailed   = "Gagal menambahkan agenda"
	msgUpdateSuccess  = "Agenda berhasil diperbarui!"
	msgUpdateFailed   = "Gagal memperbarui agenda"
	msgDeleteSuccess  = "Agenda berhasil dihapus!"
	msgDeleteFailed   = "Gagal menghapus agenda"
)

// setFlash stores f for the next rendered page.
func (h *Handler) setFlash(w http.ResponseWriter, f vm.Flash) {
	value := string(f.Kind) + ":" + base64.RawURLEncoding.EncodeToString([]byte(f.Message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

// popFlash returns the pending notification, if any, and clears it so it is
// shown exactly once.
func (h *Handler) popFlash(w http.ResponseWriter, r *http.Request) *vm.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})

	return decodeFlash(cookie.Value)
}

func decodeFlash(value string) *vm.Flash {
	kind, encoded, ok := strings.Cut(value, ":")
	if !ok {
		return nil
	}

	fk := vm.FlashKind(kind)
	if fk != vm.FlashSuccess && fk != vm.FlashError {
		return nil
	}

	msg, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(msg) == 0 {
		return nil
	}

	return &vm.Flash{Kind: fk, Message: string(msg)}
}

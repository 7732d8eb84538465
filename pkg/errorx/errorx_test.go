package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, CodeDBError, "Gagal menyimpan pesan")

	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause not reachable via errors.Is")
	}
	if got := err.Error(); got != "Gagal menyimpan pesan: dial tcp: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(CodeNotFound, "Sesi tidak ditemukan")); got != CodeNotFound {
		t.Fatalf("GetCode = %d, want %d", got, CodeNotFound)
	}
	// 再包一层普通错误也能取到业务码
	outer := fmt.Errorf("handler: %w", New(CodeSessionClosed, "Ruang ini telah ditutup"))
	if got := GetCode(outer); got != CodeSessionClosed {
		t.Fatalf("GetCode(wrapped) = %d, want %d", got, CodeSessionClosed)
	}
	if got := GetCode(errors.New("plain")); got != CodeServerBusy {
		t.Fatalf("GetCode(plain) = %d, want default %d", got, CodeServerBusy)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{CodeSuccess, http.StatusOK},
		{CodeInvalidParam, http.StatusBadRequest},
		{CodeSessionClosed, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodePolicyForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeDBError, http.StatusInternalServerError},
		{CodeSchemaUnsupported, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.code); got != tc.want {
			t.Errorf("HTTPStatus(%d) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestIsSchemaUnsupported(t *testing.T) {
	err := Wrap(errors.New("Error 1054: Unknown column"), CodeSchemaUnsupported, "kolom tidak tersedia")
	if !IsSchemaUnsupported(err) {
		t.Fatalf("schema error not recognized")
	}
	if IsSchemaUnsupported(New(CodeDBError, "x")) {
		t.Fatalf("db error misrecognized as schema error")
	}
	if IsSchemaUnsupported(nil) {
		t.Fatalf("nil misrecognized")
	}
}

package validation

import (
	"strings"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"my photo.jpg", "my_photo.jpg"},
		{"Kỷ niệm.jpg", "Ky_niem.jpg"},
		{"../../etc/passwd.png", "etc_passwd.png"},
		{`C:\Users\me\pic.gif`, "C_Users_me_pic.gif"},
		{"đ.png", "d.png"},
		{"Đà Lạt.webp", "Da_Lat.webp"},
		{"漢字.png", "image.png"},
		{"...", "image"},
		{"", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SecureFilename(tt.in); got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeCaption(t *testing.T) {
	decomposed := norm.NFD.String("Kỷ niệm đẹp")

	got := NormalizeCaption("  " + decomposed + "\n")
	if got != decomposed {
		t.Errorf("NormalizeCaption() = %q, want %q unchanged apart from trimming", got, decomposed)
	}
	if NormalizeCaption("   ") != "" {
		t.Errorf("NormalizeCaption() of blanks should be empty")
	}

	long := strings.Repeat("ệ", 5000)
	if NormalizeCaption(long) != long {
		t.Errorf("NormalizeCaption() must not shorten long captions")
	}
}

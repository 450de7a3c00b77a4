package utils

import "testing"

func TestNormalizeDriveURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"file/d share link",
			"https://drive.google.com/file/d/ABC123/view",
			"https://drive.google.com/uc?export=view&id=ABC123",
		},
		{
			"already normalized",
			"https://drive.google.com/uc?export=view&id=XYZ",
			"https://drive.google.com/uc?export=view&id=XYZ",
		},
		{
			"open?id link stops at ampersand",
			"https://drive.google.com/open?id=QWE&other=1",
			"https://drive.google.com/uc?export=view&id=QWE",
		},
		{
			"non-drive URL passes through",
			"https://example.com/photo.jpg",
			"https://example.com/photo.jpg",
		},
		{
			"drive URL with unknown shape passes through",
			"https://drive.google.com/drive/folders/ABC",
			"https://drive.google.com/drive/folders/ABC",
		},
		{
			"empty string",
			"",
			"",
		},
		{
			"open?id with empty id falls through",
			"https://drive.google.com/open?id=&x=1",
			"https://drive.google.com/open?id=&x=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDriveURL(tt.in); got != tt.want {
				t.Errorf("NormalizeDriveURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

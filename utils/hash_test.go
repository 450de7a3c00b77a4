package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("CheckPassword accepted the wrong password")
	}
}

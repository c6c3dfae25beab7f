package controllers

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestVerificationCodeStoreConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		email := fmt.Sprintf("user%d@example.com", i%5)
		wg.Add(3)
		go func() {
			defer wg.Done()
			storeVerificationCode(email, "123456", time.Minute)
		}()
		go func() {
			defer wg.Done()
			checkVerificationCode(email, "123456")
		}()
		go func() {
			defer wg.Done()
			clearVerificationCode(email)
		}()
	}
	wg.Wait()
}

func TestVerificationCodeLifecycle(t *testing.T) {
	email := "owner@example.com"

	storeVerificationCode(email, "654321", time.Minute)
	if !checkVerificationCode(email, "654321") {
		t.Error("stored code must verify")
	}
	if checkVerificationCode(email, "000000") {
		t.Error("wrong code must not verify")
	}

	clearVerificationCode(email)
	if checkVerificationCode(email, "654321") {
		t.Error("cleared code must not verify")
	}

	storeVerificationCode(email, "111111", -time.Minute)
	if checkVerificationCode(email, "111111") {
		t.Error("expired code must not verify")
	}
	clearVerificationCode(email)
}

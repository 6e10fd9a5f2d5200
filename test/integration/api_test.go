// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"

	"github.com/ciphergate/ciphergate/internal/store"
)

// post sends a JSON body and decodes the JSON reply.
func post(a *app, path, body string) (int, map[string]any) {
	resp, err := http.Post(a.server.URL+path, "application/json", bytes.NewBufferString(body))
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	var out map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	Expect(dec.Decode(&out)).To(Succeed())
	return resp.StatusCode, out
}

var _ = Describe("CipherGate API", func() {
	var a *app

	BeforeEach(func(ctx context.Context) {
		truncate(ctx)
		a = startApp(env.pool)
	})

	Describe("analyst lifecycle", func() {
		It("registers, verifies, and analyzes messages", func() {
			status, body := post(a, "/api/auth/signup", `{"username":"alice","password":"secret1"}`)
			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(HaveKeyWithValue("username", "alice"))

			status, body = post(a, "/api/auth/verify", `{"username":"alice","password":"secret1"}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("message", "Verified"))

			status, body = post(a, "/api/auth/verify", `{"username":"alice","password":"wrongpw"}`)
			Expect(status).To(Equal(http.StatusUnauthorized))
			Expect(body).To(Equal(map[string]any{"error": "Unauthorized"}))

			status, body = post(a, "/api/cipher/decode-message",
				`{"username":"alice","password":"secret1","message":[1,2,2,5]}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("result", json.Number("10")))
			Expect(body).To(HaveKeyWithValue("classification", "legit"))

			status, body = post(a, "/api/cipher/decode-message",
				`{"username":"alice","password":"secret1","message":[5,1,2]}`)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(HaveKeyWithValue("result", json.Number("-1")))
			Expect(body).To(HaveKeyWithValue("classification", "trap"))

			Expect(testutil.ToFloat64(a.metrics.MessagesAnalyzedTotal.WithLabelValues("legit"))).To(Equal(1.0))
		})

		It("stores a bcrypt digest, never the password", func(ctx context.Context) {
			status, _ := post(a, "/api/auth/signup", `{"username":"bob","password":"secret1"}`)
			Expect(status).To(Equal(http.StatusCreated))

			var digest string
			Expect(env.pool.QueryRow(ctx, "SELECT password_hash FROM analysts WHERE username = $1", "bob").
				Scan(&digest)).To(Succeed())
			Expect(digest).NotTo(ContainSubstring("secret1"))
			Expect(bcrypt.CompareHashAndPassword([]byte(digest), []byte("secret1"))).To(Succeed())
		})

		It("keeps accounts across restarts", func() {
			status, _ := post(a, "/api/auth/signup", `{"username":"carol","password":"secret1"}`)
			Expect(status).To(Equal(http.StatusCreated))
			a.server.Close()

			restarted := startApp(env.pool)
			status, _ = post(restarted, "/api/auth/verify", `{"username":"carol","password":"secret1"}`)
			Expect(status).To(Equal(http.StatusOK))
		})
	})

	Describe("duplicate usernames", func() {
		It("rejects a second signup and keeps the first password", func() {
			status, _ := post(a, "/api/auth/signup", `{"username":"dave","password":"first1"}`)
			Expect(status).To(Equal(http.StatusCreated))

			status, body := post(a, "/api/auth/signup", `{"username":"dave","password":"second2"}`)
			Expect(status).To(Equal(http.StatusConflict))
			Expect(body).To(HaveKeyWithValue("error", "Username already exists"))

			status, _ = post(a, "/api/auth/verify", `{"username":"dave","password":"first1"}`)
			Expect(status).To(Equal(http.StatusOK))
		})

		It("lets exactly one concurrent signup win", func() {
			const attempts = 10
			statuses := make([]int, attempts)

			var wg sync.WaitGroup
			for i := range attempts {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					statuses[i], _ = post(a, "/api/auth/signup",
						fmt.Sprintf(`{"username":"erin","password":"secret%d"}`, i))
				}()
			}
			wg.Wait()

			Expect(statuses).To(HaveEach(BeElementOf(http.StatusCreated, http.StatusConflict)))
			created := 0
			for _, s := range statuses {
				if s == http.StatusCreated {
					created++
				}
			}
			Expect(created).To(Equal(1))
		})
	})

	Describe("store outage", func() {
		It("answers 503 when the database is unreachable", func(ctx context.Context) {
			pool, err := store.Connect(ctx, env.connStr, store.ConnectOptions{Timeout: 10 * time.Second})
			Expect(err).NotTo(HaveOccurred())
			down := startApp(pool)
			pool.Close()

			status, body := post(down, "/api/auth/verify", `{"username":"alice","password":"secret1"}`)
			Expect(status).To(BeElementOf(http.StatusServiceUnavailable, http.StatusInternalServerError))
			Expect(body).To(HaveKey("error"))
		})
	})
})

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"fintrack/internal/auth"
)

const baseURL = "http://localhost:8080"

var (
	userToken  string
	adminToken string
)

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required to sign e2e tokens")
	}
	var err error
	userToken, err = auth.Sign([]byte(secret), "e2e-user", false, time.Hour)
	if err != nil {
		log.Fatalf("sign user token: %v", err)
	}
	adminToken, err = auth.Sign([]byte(secret), "e2e-admin", true, time.Hour)
	if err != nil {
		log.Fatalf("sign admin token: %v", err)
	}

	// 1. Health check
	checkEndpoint("GET", "/health", "", nil, 200)

	// 2. Admin seeds reference data
	checkEndpoint("PUT", "/api/v1/admin/gold-rate", adminToken,
		map[string]interface{}{"rate_22k": "5500", "rate_24k": "6000"}, 200)
	checkEndpoint("PUT", "/api/v1/admin/area-prices", adminToken,
		map[string]interface{}{"area_name": "Baner", "city": "Pune", "state": "Maharashtra", "price_per_sqft": "5500"}, 200)

	// 3. User registers one holding per sector
	checkEndpoint("POST", "/api/v1/deposits", userToken, map[string]interface{}{
		"bank_name":       "SBI",
		"invested_amount": "100000",
		"interest_rate":   "7.5",
		"start_date":      "2024-01-01",
		"maturity_date":   "2026-01-01",
	}, 201)
	checkEndpoint("POST", "/api/v1/gold", userToken, map[string]interface{}{
		"weight_grams":   "10",
		"purity":         24,
		"form":           "coin",
		"purchase_price": "50000",
	}, 201)
	checkEndpoint("POST", "/api/v1/realestate", userToken, map[string]interface{}{
		"area_name":      "Baner",
		"city":           "Pune",
		"state":          "Maharashtra",
		"area_sqft":      "1000",
		"purchase_price": "5000000",
	}, 201)

	// 4. A parcel without a matching area price must be rejected
	checkEndpoint("POST", "/api/v1/realestate", userToken, map[string]interface{}{
		"area_name":      "Nowhere",
		"city":           "Pune",
		"state":          "Maharashtra",
		"area_sqft":      "800",
		"purchase_price": "4000000",
	}, 404)

	// 5. Analysis views
	checkEndpoint("GET", "/api/v1/analysis/overall", userToken, nil, 200)
	checkEndpoint("GET", "/api/v1/analysis/sectors", userToken, nil, 200)
	checkEndpoint("GET", "/api/v1/analysis/top-gainers", userToken, nil, 200)
	checkEndpoint("GET", "/api/v1/analysis/highest-growth/gold", userToken, nil, 200)
	checkEndpoint("GET", "/api/v1/analysis/investments/realestate", userToken, nil, 200)
	checkEndpoint("GET", "/api/v1/analysis/investments/crypto", userToken, nil, 400)

	// 6. Rate update triggers a gold refresh
	checkEndpoint("PUT", "/api/v1/admin/gold-rate", adminToken,
		map[string]interface{}{"rate_22k": "5600", "rate_24k": "6200"}, 200)
	checkEndpoint("GET", "/api/v1/gold", userToken, nil, 200)

	// 7. Admin-only routes reject plain users
	checkEndpoint("POST", "/api/v1/admin/refresh/all", userToken, nil, 403)
	checkEndpoint("POST", "/api/v1/admin/refresh/all", adminToken, nil, 200)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path, token string, body interface{}, expectedStatus int) {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
}

// Command simulator generates synthetic bedside-monitor vitals and
// posts them to the watcher API, for demos and end-to-end testing.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

type pattern struct {
	name string
	// step mutates the vitals toward the pattern's trajectory.
	step func(v *vitals, tick int)
}

type vitals struct {
	PatientID       string  `json:"patient_id"`
	Source          string  `json:"source"`
	HeartRate       float64 `json:"heart_rate"`
	SpO2            float64 `json:"spo2"`
	SystolicBP      float64 `json:"systolic_bp"`
	DiastolicBP     float64 `json:"diastolic_bp"`
	RespiratoryRate float64 `json:"respiratory_rate"`
	Temperature     float64 `json:"temperature"`
	ICULOS          float64 `json:"iculos"`
	WBC             float64 `json:"wbc"`
}

var patterns = map[string]pattern{
	"stable": {
		name: "stable",
		step: func(v *vitals, _ int) {
			v.HeartRate = jitter(80, 4)
			v.SpO2 = jitter(97, 1)
			v.SystolicBP = jitter(120, 5)
			v.RespiratoryRate = jitter(16, 2)
			v.Temperature = jitter(36.8, 0.2)
		},
	},
	"fever": {
		name: "fever",
		step: func(v *vitals, tick int) {
			v.Temperature = 37.5 + float64(tick)*0.15 + jitter(0, 0.1)
			if v.Temperature > 40 {
				v.Temperature = 40
			}
			v.HeartRate = jitter(95, 5)
			v.RespiratoryRate = jitter(21, 2)
			v.WBC = jitter(13000, 800)
		},
	},
	"deteriorating": {
		name: "deteriorating",
		step: func(v *vitals, tick int) {
			// Progressive septic picture: falling BP, climbing HR and RR
			v.SystolicBP = 115 - float64(tick)*3 + jitter(0, 2)
			if v.SystolicBP < 75 {
				v.SystolicBP = 75
			}
			v.HeartRate = 90 + float64(tick)*4 + jitter(0, 3)
			v.RespiratoryRate = 20 + float64(tick)*0.8 + jitter(0, 1)
			v.Temperature = 38.2 + jitter(0, 0.3)
			v.SpO2 = 96 - float64(tick)*0.5 + jitter(0, 0.5)
			v.WBC = jitter(14500, 1000)
		},
	},
}

func main() {
	url := flag.String("url", "http://localhost:8080", "watcher API base URL")
	username := flag.String("username", "", "API username")
	password := flag.String("password", "", "API password")
	patientID := flag.String("patient", "demo-patient-1", "patient identifier")
	patternName := flag.String("pattern", "stable", "vitals pattern: stable, fever, deteriorating")
	interval := flag.Duration("interval", 5*time.Second, "delay between samples")
	count := flag.Int("count", 0, "number of samples to send (0 = run until interrupted)")
	flag.Parse()

	p, ok := patterns[*patternName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown pattern: %s\n", *patternName)
		os.Exit(1)
	}

	token, err := login(*url, *username, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Simulating %q vitals for patient %s every %s\n", p.name, *patientID, *interval)

	v := vitals{
		PatientID:       *patientID,
		Source:          "manual",
		HeartRate:       80,
		SpO2:            97,
		SystolicBP:      120,
		DiastolicBP:     80,
		RespiratoryRate: 18,
		Temperature:     37.0,
		ICULOS:          1,
		WBC:             8000,
	}

	client := &http.Client{Timeout: 10 * time.Second}
	for tick := 0; *count == 0 || tick < *count; tick++ {
		p.step(&v, tick)
		v.ICULOS = 1 + float64(tick)

		if err := postVitals(client, *url, token, &v); err != nil {
			fmt.Fprintf(os.Stderr, "post failed: %v\n", err)
		} else {
			fmt.Printf("sent tick=%d HR=%.1f SBP=%.1f Temp=%.2f Resp=%.1f SpO2=%.1f\n",
				tick, v.HeartRate, v.SystolicBP, v.Temperature, v.RespiratoryRate, v.SpO2)
		}

		time.Sleep(*interval)
	}
}

func login(baseURL, username, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := http.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Token, nil
}

func postVitals(client *http.Client, baseURL, token string, v *vitals) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/vitals", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil
}

func jitter(base, spread float64) float64 {
	return base + (rand.Float64()*2-1)*spread
}

package driver

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RideRequest is a simulated incoming ride offer.
type RideRequest struct {
	ID         string    `json:"id"`
	RiderName  string    `json:"rider_name"`
	Pickup     string    `json:"pickup"`
	Dropoff    string    `json:"dropoff"`
	DistanceKm float64   `json:"distance_km"`
	Fare       float64   `json:"fare"`
	Currency   string    `json:"currency"`
	OfferedAt  time.Time `json:"offered_at"`
}

// RequestSource produces the next ride offer.
type RequestSource interface {
	Next() RideRequest
}

type mockTemplate struct {
	rider      string
	pickup     string
	dropoff    string
	distanceKm float64
	fare       float64
}

var mockTemplates = []mockTemplate{
	{"Priya Sharma", "MG Road Metro Station", "Indiranagar 100ft Road", 6.2, 184},
	{"Rahul Verma", "Koramangala 5th Block", "Kempegowda Airport T1", 36.8, 912},
	{"Ananya Iyer", "Whitefield ITPL", "Marathahalli Bridge", 7.5, 210},
	{"Mohammed Arif", "Jayanagar 4th Block", "Majestic Bus Stand", 9.1, 236},
}

// MockRequests cycles through a fixed set of offers, giving each a fresh id.
type MockRequests struct {
	mu   sync.Mutex
	next int
	now  func() time.Time
}

func NewMockRequests() *MockRequests {
	return &MockRequests{now: time.Now}
}

func (m *MockRequests) Next() RideRequest {
	m.mu.Lock()
	t := mockTemplates[m.next%len(mockTemplates)]
	m.next++
	m.mu.Unlock()

	return RideRequest{
		ID:         uuid.NewString(),
		RiderName:  t.rider,
		Pickup:     t.pickup,
		Dropoff:    t.dropoff,
		DistanceKm: t.distanceKm,
		Fare:       t.fare,
		Currency:   "INR",
		OfferedAt:  m.now().UTC(),
	}
}

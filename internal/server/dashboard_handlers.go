package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/auth"
	"github.com/siddhardha-mns/SIH-SmartHelpDesk/internal/services/iam"
)

// The ticket data below is demonstration content for the dashboard.
// Real ticket workflows live outside this service.

// Ticket is a helpdesk ticket summary shown on the dashboard.
type Ticket struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AssignedTo string `json:"assigned_to"`
}

var recentTickets = []Ticket{
	{ID: "TK-2025-001", Title: "Network drive access issue", Status: "Open", Priority: "High", AssignedTo: "Raj Kumar"},
	{ID: "TK-2025-002", Title: "Printer not working", Status: "In Progress", Priority: "Medium", AssignedTo: "Priya Sharma"},
	{ID: "TK-2025-003", Title: "Password reset", Status: "Resolved", Priority: "Low", AssignedTo: "Priya Sharma"},
	{ID: "TK-2025-004", Title: "Laptop overheating", Status: "In Progress", Priority: "High", AssignedTo: "Raj Kumar"},
	{ID: "TK-2025-005", Title: "Email sync issue", Status: "Open", Priority: "Low", AssignedTo: "Unassigned"},
}

// DashboardResponse carries the landing page metrics and recent tickets.
type DashboardResponse struct {
	Metrics       map[string]string `json:"metrics"`
	RecentTickets []Ticket          `json:"recent_tickets"`
	Role          string            `json:"role"`
}

// HandleDashboard serves the metrics panel shown to every authenticated user.
func HandleDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := auth.PrincipalFromContext(r.Context())
		writeJSON(w, http.StatusOK, DashboardResponse{
			Metrics: map[string]string{
				"open_tickets":   "45",
				"in_progress":    "12",
				"resolved_today": "18",
				"avg_resolution": "2.5 hrs",
			},
			RecentTickets: recentTickets[:4],
			Role:          principal.Role,
		})
	}
}

// SupportQueueResponse carries the IT Support panel data.
type SupportQueueResponse struct {
	AssignedTickets []Ticket          `json:"assigned_tickets"`
	OpenTickets     []Ticket          `json:"open_tickets"`
	Analytics       map[string]string `json:"analytics"`
}

// HandleSupportQueue serves the support panel. Gated at IT Support.
func HandleSupportQueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var open []Ticket
		for _, t := range recentTickets {
			if t.Status != "Resolved" {
				open = append(open, t)
			}
		}
		writeJSON(w, http.StatusOK, SupportQueueResponse{
			AssignedTickets: []Ticket{recentTickets[0], recentTickets[3]},
			OpenTickets:     open,
			Analytics: map[string]string{
				"resolved_this_week":    "23",
				"avg_resolution_time":   "3.2 hours",
				"customer_satisfaction": "4.7/5",
				"first_call_resolution": "78%",
			},
		})
	}
}

// AdminUsersResponse lists accounts for the admin panel.
type AdminUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// HandleAdminUsers lists accounts. Gated at Admin. In demo mode the
// built-in identities are listed instead of store rows.
func HandleAdminUsers(svc *iam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identities, err := svc.ListUsers(r.Context())
		if err != nil {
			log.Err(err).Msg("list users failed")
			writeError(w, http.StatusInternalServerError, "Failed to list users")
			return
		}
		users := make([]UserResponse, 0, len(identities))
		for i := range identities {
			users = append(users, userResponse(&identities[i]))
		}
		writeJSON(w, http.StatusOK, AdminUsersResponse{Users: users})
	}
}

// HandleAdminStats serves the admin panel metrics. Gated at Admin.
func HandleAdminStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"total_users":         "146",
			"active_sessions":     "23",
			"total_tickets":       "1,234",
			"resolved_this_month": "892",
		})
	}
}

// TicketRequest is a submitted helpdesk ticket.
type TicketRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// TicketResponse acknowledges a submission with the generated ticket ID.
type TicketResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// ticketCounter continues the demo numbering after the five seeded tickets.
var ticketCounter atomic.Int64

func init() {
	ticketCounter.Store(5)
}

// HandleSubmitTicket accepts a ticket and returns its generated ID.
func HandleSubmitTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
			writeError(w, http.StatusUnprocessableEntity, "Title and description are required")
			return
		}

		id := fmt.Sprintf("TK-2025-%03d", ticketCounter.Add(1))
		writeJSON(w, http.StatusCreated, TicketResponse{
			ID:      id,
			Message: "Ticket submitted successfully",
		})
	}
}

package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/Ak1ra777/LeadFlow-demo/db"
	"github.com/Ak1ra777/LeadFlow-demo/models"
	"github.com/Ak1ra777/LeadFlow-demo/services/phonetics"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Messages returned to the decision model. They are instructions, not user
// copy: the model relays them to the caller in its own words.
const (
	MsgMissingInfo   = "Missing name or phone. Ask again."
	MsgAlreadySaved  = "Lead already saved. Do not save again. End the call."
	MsgLeadSaved     = "Success. Lead saved. Tell the user the manager will contact them."
	MsgDatabaseError = "Database error. Tell the user we will call them later."
)

// leadKey identifies a lead for dedupe purposes: lowercased name plus
// digits-only phone.
type leadKey struct {
	name  string
	phone string
}

type LeadService struct {
	repo db.LeadRepository

	mu    sync.Mutex
	saved map[leadKey]struct{}
}

func NewLeadService(repo db.LeadRepository) *LeadService {
	return &LeadService{
		repo:  repo,
		saved: make(map[leadKey]struct{}),
	}
}

// SaveLead persists a (name, phone) pair at most once per process lifetime.
// The returned string is always a short instruction for the decision model,
// never an error: every failure mode is recovered locally.
func (s *LeadService) SaveLead(ctx context.Context, name, phone string) string {
	cleanName := strings.TrimSpace(name)
	phoneDigits := phonetics.NormalizePhoneToDigits(phone)

	if cleanName == "" || phoneDigits == "" {
		return MsgMissingInfo
	}

	key := leadKey{name: strings.ToLower(cleanName), phone: phoneDigits}

	s.mu.Lock()
	_, duplicate := s.saved[key]
	s.mu.Unlock()
	if duplicate {
		return MsgAlreadySaved
	}

	if err := s.repo.InsertLead(ctx, cleanName, phoneDigits); err != nil {
		// Leave the dedupe set untouched so a later turn can retry.
		log.Printf("[ERROR] Lead insert failed for %s: %v", phoneDigits, err)
		return MsgDatabaseError
	}

	s.mu.Lock()
	s.saved[key] = struct{}{}
	s.mu.Unlock()

	log.Printf("[INFO] Hot lead saved: %s (%s)", cleanName, phoneDigits)
	return MsgLeadSaved
}

func (s *LeadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	return s.repo.ListLeads(ctx)
}

// SearchLeads returns leads whose name fuzzy-matches the query, for sales
// follow-up lookups where the spelling heard over the phone is approximate.
func (s *LeadService) SearchLeads(ctx context.Context, query string) ([]models.Lead, error) {
	leads, err := s.repo.ListLeads(ctx)
	if err != nil {
		return nil, err
	}

	var matches []models.Lead
	for _, lead := range leads {
		if fuzzy.MatchNormalizedFold(query, lead.Name) || strings.Contains(lead.Phone, query) {
			matches = append(matches, lead)
		}
	}

	return matches, nil
}

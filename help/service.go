// Package help implements the help request workflow: creation, listing,
// lookups and status changes on top of a store.HelpRequestStore.
//
// Authorization on update:
//   - articles and zip code may only be edited by the requester while the
//     request is PENDING or ACCEPTED
//   - anyone but the requester may accept a pending request and becomes its helper
//   - only the helper moves an accepted request to SHOPPING and DELIVERED
//   - only the requester confirms a delivered request as DONE
//   - the requester or the helper may cancel
//   - nobody else may update the request at all
//
// An update that leaves the request as it was is not written back.
package help

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bitmark-inc/neighbor-api/schema"
	"github.com/bitmark-inc/neighbor-api/store"
)

var ErrMissingPrincipal = errors.New("missing principal")

type CreateInput struct {
	ZipCode  string
	Articles []schema.Article
}

// UpdateInput carries a partial change. Nil fields are left untouched.
type UpdateInput struct {
	ZipCode  *string
	Articles []schema.Article
	Status   *string
}

type Service struct {
	store     store.HelpRequestStore
	directory store.UserDirectory
	log       *logrus.Entry
}

func NewService(helpStore store.HelpRequestStore, directory store.UserDirectory, logger *logrus.Entry) *Service {
	return &Service{
		store:     helpStore,
		directory: directory,
		log:       logger,
	}
}

// GetAll lists help requests of every user unless the filter restricts it
func (s *Service) GetAll(ctx context.Context, principal string, f Filter) ([]schema.HelpRequest, error) {
	if f.UserID == Me && principal == "" {
		return nil, ErrMissingPrincipal
	}

	q, err := f.query(principal)
	if err != nil {
		return nil, err
	}

	helps, err := s.store.FindHelpRequests(ctx, q)
	if err != nil {
		return nil, err
	}

	if f.IncludeRequester {
		if err := s.attachRequesters(ctx, helps); err != nil {
			return nil, err
		}
	}

	return helps, nil
}

// Create opens a new pending help request owned by the principal
func (s *Service) Create(ctx context.Context, principal string, in CreateInput) (*schema.HelpRequest, error) {
	if principal == "" {
		return nil, ErrMissingPrincipal
	}

	zipCode, err := validateZipCode(in.ZipCode)
	if err != nil {
		return nil, err
	}

	articles, err := validateArticles(in.Articles)
	if err != nil {
		return nil, err
	}

	help, err := s.store.InsertHelpRequest(ctx, &schema.HelpRequest{
		RequesterID: principal,
		ZipCode:     zipCode,
		Status:      schema.InitialHelpStatus,
		Articles:    articles,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithField("help_id", help.ID).WithField("requester", principal).Info("help request created")
	return help, nil
}

// Get returns a help request without its requester profile
func (s *Service) Get(ctx context.Context, id string) (*schema.HelpRequest, error) {
	help, err := s.store.GetHelpRequest(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	return help, nil
}

// AttachRequester resolves the requester profile of a single help request.
// A requester without profile leaves the field empty.
func (s *Service) AttachRequester(ctx context.Context, help *schema.HelpRequest) error {
	profile, err := s.directory.GetProfile(ctx, help.RequesterID)
	if err != nil {
		if err == store.ErrProfileNotFound {
			return nil
		}
		return err
	}

	help.Requester = profile
	return nil
}

// Update applies a partial change in one atomic store update
func (s *Service) Update(ctx context.Context, principal, id string, in UpdateInput) (*schema.HelpRequest, error) {
	if principal == "" {
		return nil, ErrMissingPrincipal
	}

	var (
		target   schema.HelpStatus
		zipCode  string
		articles schema.Articles
		err      error
	)

	if in.Status != nil {
		if target, err = schema.ParseHelpStatus(*in.Status); err != nil {
			return nil, &ValidationError{Field: "status", Reason: err.Error()}
		}
	}

	if in.ZipCode != nil {
		if zipCode, err = validateZipCode(*in.ZipCode); err != nil {
			return nil, err
		}
	}

	if in.Articles != nil {
		if articles, err = validateArticles(in.Articles); err != nil {
			return nil, err
		}
	}

	if in.ZipCode == nil && in.Articles == nil && in.Status == nil {
		return s.Get(ctx, id)
	}

	var (
		from      schema.HelpStatus
		unchanged *schema.HelpRequest
	)
	help, err := s.store.UpdateHelpRequest(ctx, id, func(h *schema.HelpRequest) error {
		from = h.Status
		before := h.Clone()

		if in.Status != nil {
			if err := checkTransition(h, id, target); err != nil {
				return err
			}
		}

		if err := authorize(h, id, principal, in, target); err != nil {
			return err
		}

		if in.ZipCode != nil || in.Articles != nil {
			if h.Status != schema.HelpPending && h.Status != schema.HelpAccepted {
				return &ValidationError{Field: "status", Reason: fmt.Sprintf("a %s help request can not be edited", h.Status)}
			}
			if in.ZipCode != nil {
				h.ZipCode = zipCode
			}
			if in.Articles != nil {
				h.Articles = articles
			}
		}

		if in.Status != nil && target != h.Status {
			if target == schema.HelpAccepted {
				h.HelperID = principal
			}
			h.Status = target
		}

		if sameContent(&before, h) {
			unchanged = &before
			return errUnchanged
		}
		return nil
	})
	if err == errUnchanged {
		return unchanged, nil
	}
	if err != nil {
		return nil, notFound(id, err)
	}

	if from != help.Status {
		s.log.WithFields(logrus.Fields{
			"help_id": id,
			"from":    from,
			"to":      help.Status,
			"by":      principal,
		}).Info("help request status changed")
	}

	return help, nil
}

// errUnchanged aborts a store update whose mutation left the record as it was
var errUnchanged = errors.New("help request unchanged")

func checkTransition(h *schema.HelpRequest, id string, to schema.HelpStatus) error {
	if to == h.Status && !h.Status.Terminal() {
		return nil
	}

	if !schema.CanTransition(h.Status, to) {
		return &InvalidTransitionError{ID: id, From: h.Status, To: to}
	}

	return nil
}

// authorize lets only the requester edit fields and only the requester or
// the helper touch a request, except for a newcomer accepting it
func authorize(h *schema.HelpRequest, id, principal string, in UpdateInput, to schema.HelpStatus) error {
	isRequester := h.RequesterID == principal
	isHelper := h.HelperID != "" && h.HelperID == principal

	if (in.ZipCode != nil || in.Articles != nil) && !isRequester {
		return &ForbiddenError{ID: id, Action: "edit"}
	}

	if in.Status != nil && to != h.Status {
		if !mayTransition(h, principal, to) {
			return &ForbiddenError{ID: id, Action: "set status " + strings.ToLower(string(to)) + " on"}
		}
		return nil
	}

	if !isRequester && !isHelper {
		return &ForbiddenError{ID: id, Action: "update"}
	}
	return nil
}

func sameContent(a, b *schema.HelpRequest) bool {
	if a.ZipCode != b.ZipCode || a.Status != b.Status || a.HelperID != b.HelperID {
		return false
	}
	if len(a.Articles) != len(b.Articles) {
		return false
	}
	for i := range a.Articles {
		if a.Articles[i] != b.Articles[i] {
			return false
		}
	}
	return true
}

func mayTransition(h *schema.HelpRequest, principal string, to schema.HelpStatus) bool {
	isRequester := h.RequesterID == principal
	isHelper := h.HelperID != "" && h.HelperID == principal

	switch to {
	case schema.HelpAccepted:
		return !isRequester
	case schema.HelpShopping, schema.HelpDelivered:
		return isHelper
	case schema.HelpDone:
		return isRequester
	case schema.HelpCancelled:
		return isRequester || isHelper
	}
	return false
}

func (s *Service) attachRequesters(ctx context.Context, helps []schema.HelpRequest) error {
	if len(helps) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	ids := make([]string, 0)
	for _, h := range helps {
		if _, ok := seen[h.RequesterID]; ok {
			continue
		}
		seen[h.RequesterID] = struct{}{}
		ids = append(ids, h.RequesterID)
	}

	profiles, err := s.directory.GetProfiles(ctx, ids)
	if err != nil {
		return err
	}

	for i := range helps {
		if p, ok := profiles[helps[i].RequesterID]; ok {
			profile := p
			helps[i].Requester = &profile
		}
	}

	return nil
}

func notFound(id string, err error) error {
	if err == store.ErrHelpRequestNotFound {
		return &NotFoundError{ID: id}
	}
	return err
}

func validateZipCode(zipCode string) (string, error) {
	zipCode = strings.TrimSpace(zipCode)
	if zipCode == "" {
		return "", &ValidationError{Field: "zip_code", Reason: "must not be empty"}
	}
	return zipCode, nil
}

func validateArticles(articles []schema.Article) (schema.Articles, error) {
	if len(articles) == 0 {
		return nil, &ValidationError{Field: "articles", Reason: "at least one article is required"}
	}

	result := make(schema.Articles, 0, len(articles))
	for i, a := range articles {
		a.Description = strings.TrimSpace(a.Description)
		if a.Description == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("articles[%d].description", i), Reason: "must not be empty"}
		}
		if a.Quantity < 1 {
			return nil, &ValidationError{Field: fmt.Sprintf("articles[%d].quantity", i), Reason: "must be at least 1"}
		}
		result = append(result, a)
	}

	return result, nil
}

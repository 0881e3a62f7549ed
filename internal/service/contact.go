package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/YusovID/agency-backoffice/internal/apperrors"
	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/leadscore"
	"github.com/YusovID/agency-backoffice/internal/mailer"
	"github.com/YusovID/agency-backoffice/internal/render"
	"github.com/YusovID/agency-backoffice/internal/repository"
	"github.com/YusovID/agency-backoffice/internal/validation"
	"github.com/YusovID/agency-backoffice/pkg/logger/sl"
)

const defaultLeadSource = "website"

// LeadResult is a stored lead and whether every email about it was accepted.
type LeadResult struct {
	Contact   *domain.Contact
	EmailSent bool
}

type ContactService interface {
	SubmitLead(ctx context.Context, in domain.ContactInput) (*LeadResult, error)
	Create(ctx context.Context, in domain.ContactInput) (*domain.Contact, error)
	Get(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error)
	Update(ctx context.Context, id string, in domain.ContactInput) (*domain.Contact, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
}

// LeadRenderer is implemented by render.Renderer.
type LeadRenderer interface {
	LeadNotification(c *domain.Contact) (render.Email, error)
	LeadAutoReply(c *domain.Contact) (render.Email, error)
}

type ContactServiceImpl struct {
	BaseService
	contacts    repository.ContactRepository
	renderer    LeadRenderer
	mailer      mailer.Mailer
	notifyEmail string
}

func NewContactService(
	db Transactor,
	log *slog.Logger,
	contacts repository.ContactRepository,
	renderer LeadRenderer,
	m mailer.Mailer,
	notifyEmail string,
) *ContactServiceImpl {
	return &ContactServiceImpl{
		BaseService: NewBaseService(db, log),
		contacts:    contacts,
		renderer:    renderer,
		mailer:      m,
		notifyEmail: notifyEmail,
	}
}

// SubmitLead stores a public form submission and then emails the agency and
// the lead. Mail failures are logged and reported through EmailSent; the
// lead is kept either way.
func (s *ContactServiceImpl) SubmitLead(ctx context.Context, in domain.ContactInput) (*LeadResult, error) {
	const op = "internal.service.contact.SubmitLead"

	if in.Source == "" {
		in.Source = defaultLeadSource
	}

	c, err := s.create(ctx, op, in)
	if err != nil {
		return nil, err
	}

	leadsCaptured.WithLabelValues(c.Source).Inc()

	log := s.log.With(slog.String("op", op), slog.String("contact_id", c.ID))
	log.Info("lead captured", slog.Int("score", c.Score), slog.String("source", c.Source))

	sent := true

	if s.notifyEmail != "" {
		if err := s.sendLeadEmail(ctx, "lead_notification", s.renderer.LeadNotification, c,
			mailer.Address{Email: s.notifyEmail}, &mailer.Address{Name: c.Name, Email: c.Email}); err != nil {
			log.Error("failed to send lead notification", sl.Err(err))
			sent = false
		}
	}

	if err := s.sendLeadEmail(ctx, "lead_reply", s.renderer.LeadAutoReply, c,
		mailer.Address{Name: c.Name, Email: c.Email}, nil); err != nil {
		log.Error("failed to send lead auto-reply", sl.Err(err))
		sent = false
	}

	return &LeadResult{Contact: c, EmailSent: sent}, nil
}

func (s *ContactServiceImpl) sendLeadEmail(
	ctx context.Context,
	kind string,
	build func(*domain.Contact) (render.Email, error),
	c *domain.Contact,
	to mailer.Address,
	replyTo *mailer.Address,
) error {
	body, err := build(c)
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}

	_, err = s.mailer.Send(ctx, mailer.Message{
		To:      []mailer.Address{to},
		ReplyTo: replyTo,
		Subject: body.Subject,
		HTML:    body.HTML,
		Text:    body.Text,
	})
	emailsSent.WithLabelValues(kind, resultLabel(err)).Inc()

	return err
}

// Create stores a contact entered by an admin. No emails are sent.
func (s *ContactServiceImpl) Create(ctx context.Context, in domain.ContactInput) (*domain.Contact, error) {
	const op = "internal.service.contact.Create"

	if in.Source == "" {
		in.Source = "manual"
	}

	return s.create(ctx, op, in)
}

func (s *ContactServiceImpl) create(ctx context.Context, op string, in domain.ContactInput) (*domain.Contact, error) {
	c := &domain.Contact{Status: domain.ContactStatusNew}
	if err := applyContactInput(c, in); err != nil {
		return nil, err
	}

	created, err := s.contacts.CreateContact(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create contact: %w", op, err)
	}

	return created, nil
}

func (s *ContactServiceImpl) Get(ctx context.Context, id string) (*domain.Contact, error) {
	const op = "internal.service.contact.Get"

	c, err := s.contacts.GetContactByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *ContactServiceImpl) List(ctx context.Context, f domain.ContactFilter) (*domain.Page[domain.Contact], error) {
	const op = "internal.service.contact.List"

	contacts, total, err := s.contacts.ListContacts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.Page[domain.Contact]{Items: contacts, Pagination: f.Paginate(total)}, nil
}

// Update replaces the editable fields and recomputes the lead score. An empty
// source keeps the stored one.
func (s *ContactServiceImpl) Update(ctx context.Context, id string, in domain.ContactInput) (*domain.Contact, error) {
	const op = "internal.service.contact.Update"

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Source == "" {
		in.Source = c.Source
	}

	if err := applyContactInput(c, in); err != nil {
		return nil, err
	}

	updated, err := s.contacts.UpdateContact(ctx, c)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return updated, nil
}

// UpdateStatus moves a lead along its lifecycle. The row is locked so two
// concurrent moves cannot both pass the transition check.
func (s *ContactServiceImpl) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus) (*domain.Contact, error) {
	const op = "internal.service.contact.UpdateStatus"
	log := s.log.With(slog.String("op", op), slog.String("contact_id", id))

	var updated *domain.Contact

	err := s.transaction(ctx, op, func(tx *sqlx.Tx) error {
		current, err := s.contacts.GetContactByIDWithLock(ctx, tx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return err
			}

			return fmt.Errorf("%s: failed to get contact with lock: %w", op, err)
		}

		if !current.Status.CanTransitionTo(status) {
			return &apperrors.InvalidTransitionError{From: string(current.Status), To: string(status)}
		}

		updated, err = s.contacts.UpdateContactStatus(ctx, tx, id, status)
		if err != nil {
			return fmt.Errorf("%s: failed to update status: %w", op, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("contact status changed", slog.String("status", string(status)))

	return updated, nil
}

func (s *ContactServiceImpl) Delete(ctx context.Context, id string) error {
	const op = "internal.service.contact.Delete"

	if err := s.contacts.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// applyContactInput copies in onto c, normalises the phone number to E.164
// and recomputes the score.
func applyContactInput(c *domain.Contact, in domain.ContactInput) error {
	phone := strings.TrimSpace(in.Phone)
	if phone != "" {
		normalized, err := validation.NormalizePhone(phone)
		if err != nil {
			return &validation.ValidationError{Errors: []string{"field 'phone' must be a valid phone number"}}
		}

		phone = normalized
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = phone
	c.Company = strings.TrimSpace(in.Company)
	c.ServiceInterest = in.ServiceInterest
	c.BudgetRange = in.BudgetRange
	c.Message = strings.TrimSpace(in.Message)
	c.Source = in.Source
	c.Notes = in.Notes
	c.Score = leadscore.Score(*c)

	return nil
}

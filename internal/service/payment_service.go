package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type PaymentService struct {
	payments      PaymentStore
	memberships   MembershipStore
	registrations RegistrationStore
	clubs         ClubStore
	events        EventStore
	provider      PaymentProvider
	locker        Locker
	notifier      Notifier
	currency      string
	now           func() time.Time
	log           *logger.Logger
}

type PaymentOption func(*PaymentService)

func WithCurrency(c string) PaymentOption {
	return func(s *PaymentService) {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			s.currency = c
		}
	}
}

// WithClock replaces time.Now when computing membership expiry.
func WithClock(now func() time.Time) PaymentOption {
	return func(s *PaymentService) { s.now = now }
}

func NewPaymentService(stores Stores, provider PaymentProvider, locker Locker, notifier Notifier, opts ...PaymentOption) *PaymentService {
	if locker == nil {
		locker = NopLocker{}
	}
	s := &PaymentService{
		payments:      stores.Payments,
		memberships:   stores.Memberships,
		registrations: stores.Registrations,
		clubs:         stores.Clubs,
		events:        stores.Events,
		provider:      provider,
		locker:        locker,
		notifier:      notifier,
		currency:      model.DefaultCurrency,
		now:           time.Now,
		log:           logger.Named("payment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateIntentInput struct {
	Type    model.PaymentType
	ClubID  string
	EventID string
}

type IntentResult struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

type ConfirmResult struct {
	Payment      *model.Payment           `json:"payment"`
	Membership   *model.Membership        `json:"membership,omitempty"`
	Registration *model.EventRegistration `json:"registration,omitempty"`
}

// chargeTarget is what a payment buys.
type chargeTarget struct {
	amount  float64
	clubID  string
	eventID string
	name    string
}

func (s *PaymentService) resolveTarget(ctx context.Context, email string, in CreateIntentInput) (*chargeTarget, error) {
	switch in.Type {
	case model.PaymentMembership:
		clubID, err := required("clubId", in.ClubID)
		if err != nil {
			return nil, err
		}
		club, err := s.clubs.GetByID(ctx, clubID)
		if err != nil {
			return nil, lookup(err, "Club not found")
		}
		if club.MembershipFee <= 0 {
			return nil, Validation("No payment required")
		}
		if _, err := s.memberships.FindActive(ctx, email, club.ID); err == nil {
			return nil, Conflict("Already a member")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		return &chargeTarget{amount: club.MembershipFee, clubID: club.ID, name: club.ClubName}, nil

	case model.PaymentEvent:
		eventID, err := required("eventId", in.EventID)
		if err != nil {
			return nil, err
		}
		event, err := s.events.GetByID(ctx, eventID)
		if err != nil {
			return nil, lookup(err, "Event not found")
		}
		if !event.RequiresPayment() {
			return nil, Validation("No payment required")
		}
		if _, err := s.registrations.FindRegistered(ctx, email, event.ID); err == nil {
			return nil, Conflict("Already registered")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		return &chargeTarget{amount: event.EventFee, clubID: event.ClubID, eventID: event.ID, name: event.Title}, nil
	}
	return nil, Validation("type must be membership or event")
}

// CreateIntent opens a provider intent and records a pending Payment. Membership payments also
// get a pendingPayment Membership that Confirm activates.
func (s *PaymentService) CreateIntent(ctx context.Context, p auth.Principal, in CreateIntentInput) (*IntentResult, error) {
	email := auth.EmailOf(p)
	target, err := s.resolveTarget(ctx, email, in)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.CreateIntent(ctx, model.MinorUnits(target.amount), s.currency, map[string]string{
		"type":      string(in.Type),
		"clubId":    target.clubID,
		"eventId":   target.eventID,
		"userEmail": email,
	})
	if err != nil {
		return nil, Internal(err)
	}

	payment := &model.Payment{
		UserEmail:         email,
		Amount:            target.amount,
		Currency:          s.currency,
		Type:              in.Type,
		ClubID:            target.clubID,
		EventID:           target.eventID,
		ProviderReference: intent.ID,
		Status:            model.PaymentPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, Internal(err)
	}
	if in.Type == model.PaymentMembership {
		pending := &model.Membership{UserEmail: email, ClubID: target.clubID, PaymentID: payment.ID}
		if err := s.memberships.CreatePending(ctx, pending); err != nil {
			return nil, Internal(err)
		}
	}

	return &IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          target.amount,
		Currency:        s.currency,
	}, nil
}

// Confirm syncs a payment with the provider and, once it has succeeded, grants what it paid for.
// Confirming an already succeeded payment returns the stored state.
func (s *PaymentService) Confirm(ctx context.Context, p auth.Principal, ref string) (*ConfirmResult, error) {
	ref, err := required("paymentIntentId", ref)
	if err != nil {
		return nil, err
	}
	email := auth.EmailOf(p)

	var (
		res     *ConfirmResult
		granted bool
	)
	err = withLock(ctx, s.locker, "payment:"+ref, func() error {
		payment, err := s.payments.GetByReference(ctx, ref)
		if err != nil {
			return lookup(err, "Payment not found")
		}
		if payment.UserEmail != email {
			return Forbidden("Not authorized")
		}
		if payment.Status == model.PaymentSucceeded {
			res, err = s.fulfilled(ctx, payment)
			return err
		}

		intent, err := s.provider.GetIntent(ctx, ref)
		if err != nil {
			return Internal(err)
		}
		if intent.Status != model.PaymentSucceeded {
			if intent.Status != payment.Status {
				if err := s.payments.UpdateStatus(ctx, payment.ID, intent.Status); err != nil {
					return Internal(err)
				}
			}
			return PaymentRequired("Payment not completed (status: " + intent.Status + ")")
		}

		// Grant first so a failed grant leaves the payment confirmable again.
		res, err = s.grant(ctx, payment)
		if err != nil {
			return err
		}
		if err := s.payments.UpdateStatus(ctx, payment.ID, model.PaymentSucceeded); err != nil {
			return Internal(err)
		}
		payment.Status = model.PaymentSucceeded
		granted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !granted {
		return res, nil
	}

	publish(ctx, s.notifier, s.log, &model.DomainEvent{
		Type:      model.EventPaymentSucceeded,
		UserEmail: email,
		ClubID:    res.Payment.ClubID,
		EventID:   res.Payment.EventID,
		Amount:    res.Payment.Amount,
		Status:    res.Payment.Status,
	})
	return res, nil
}

func (s *PaymentService) grant(ctx context.Context, payment *model.Payment) (*ConfirmResult, error) {
	res := &ConfirmResult{Payment: payment}
	switch payment.Type {
	case model.PaymentMembership:
		m, err := s.memberships.FindByPayment(ctx, payment.ID)
		if err != nil {
			return nil, lookup(err, "Membership not found")
		}
		if m.Status == model.MembershipPendingPayment {
			expires := s.now().Add(model.MembershipTerm)
			m.ExpiresAt = &expires
			if err := s.memberships.Activate(ctx, m); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return nil, Conflict("Already a member")
				}
				return nil, Internal(err)
			}
		}
		res.Membership = m

	case model.PaymentEvent:
		if reg, err := s.registrations.FindRegistered(ctx, payment.UserEmail, payment.EventID); err == nil && reg.PaymentID == payment.ID {
			res.Registration = reg
			return res, nil
		}
		event, err := s.events.GetByID(ctx, payment.EventID)
		if err != nil {
			return nil, lookup(err, "Event not found")
		}
		reg := &model.EventRegistration{
			EventID:   event.ID,
			UserEmail: payment.UserEmail,
			ClubID:    event.ClubID,
			PaymentID: payment.ID,
		}
		if err := s.registrations.Register(ctx, reg, event.MaxAttendees); err != nil {
			return nil, registrationError(err)
		}
		res.Registration = reg

	default:
		return nil, Internal(errors.New("payment " + payment.ID + " has unknown type " + string(payment.Type)))
	}
	return res, nil
}

// fulfilled looks up what a succeeded payment already granted.
func (s *PaymentService) fulfilled(ctx context.Context, payment *model.Payment) (*ConfirmResult, error) {
	res := &ConfirmResult{Payment: payment}
	switch payment.Type {
	case model.PaymentMembership:
		m, err := s.memberships.FindByPayment(ctx, payment.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		res.Membership = m
	case model.PaymentEvent:
		reg, err := s.registrations.FindRegistered(ctx, payment.UserEmail, payment.EventID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, Internal(err)
		}
		res.Registration = reg
	}
	return res, nil
}

func (s *PaymentService) ListMine(ctx context.Context, p auth.Principal) ([]model.Payment, error) {
	list, err := s.payments.ListByUser(ctx, auth.EmailOf(p))
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

// ListAll gives admins every payment and managers the payments for their clubs.
func (s *PaymentService) ListAll(ctx context.Context, p auth.Principal) ([]model.Payment, error) {
	scope, err := visibleScope(ctx, s.clubs, p)
	if err != nil {
		return nil, err
	}
	list, err := s.payments.List(ctx, scope)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

package form

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gourmich/recipeform/internal/model"
	"github.com/gourmich/recipeform/internal/validation"
)

const (
	MsgRegisterFailed = "Registration failed. Please try again."
	MsgLoginFailed    = "Invalid username or password"
)

// Registration is the sign-up form. Typed input is held until the field is
// committed on blur; only then does it validate and run the uniqueness checks.
type Registration struct {
	fields  *group
	pending map[string]string
	async   map[string]*validation.UniqueValidator
	log     *slog.Logger
}

// NewRegistration returns an empty sign-up form checking availability with checker.
func NewRegistration(checker UniquenessChecker, log *slog.Logger, opts ...validation.UniqueOption) *Registration {
	if log == nil {
		log = slog.Default()
	}
	opts = append([]validation.UniqueOption{validation.WithLogger(log)}, opts...)
	r := &Registration{
		fields:  newGroup(registrationSpecs()),
		pending: make(map[string]string),
		async: map[string]*validation.UniqueValidator{
			FieldUsername: validation.NewUnique(checker.UsernameExists, validation.TagUsernameTaken, opts...),
			FieldEmail:    validation.NewUnique(checker.EmailExists, validation.TagEmailTaken, opts...),
		},
		log: log,
	}
	r.fields.load(nil)
	return r
}

// SetField records typed input for name without validating it.
func (r *Registration) SetField(name, value string) error {
	if _, ok := r.fields.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	r.pending[name] = value
	return nil
}

// Commit applies the pending input of name, marks it touched and starts the
// uniqueness check when the new value passes the synchronous rules.
func (r *Registration) Commit(ctx context.Context, name string) error {
	f, ok := r.fields.get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.touched = true
	if !r.apply(name) {
		return nil
	}
	if u, ok := r.async[name]; ok {
		if f.errs.Empty() {
			u.Trigger(ctx, f.value)
		} else {
			u.Reset()
		}
	}
	return nil
}

// apply moves pending input into the field and reports whether the value changed.
func (r *Registration) apply(name string) bool {
	v, ok := r.pending[name]
	if !ok {
		return false
	}
	delete(r.pending, name)
	f := r.fields.fields[name]
	if f.dirty && f.value == v {
		return false
	}
	f.set(v)
	if name == FieldPassword || name == FieldConfirmPassword {
		confirm := r.fields.fields[FieldConfirmPassword]
		confirm.errs = validation.MatchPasswords(r.fields.value(FieldPassword), confirm.value, confirm.errs)
	}
	return true
}

// Field returns the committed state of name, including uniqueness errors.
func (r *Registration) Field(name string) (FieldState, error) {
	f, ok := r.fields.get(name)
	if !ok {
		return FieldState{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	st := f.state()
	if u, ok := r.async[name]; ok && u.Value() == f.value {
		st.Errors = st.Errors.Merge(u.Errors())
	}
	return st, nil
}

// Status returns the tri-state validity of name.
func (r *Registration) Status(name string) validation.Status {
	f, ok := r.fields.get(name)
	if !ok {
		return validation.StatusInvalid
	}
	if !f.errs.Empty() {
		return validation.StatusInvalid
	}
	if u, ok := r.async[name]; ok && u.Value() == f.value {
		return u.Status()
	}
	return validation.StatusValid
}

// Valid is false while any field is invalid or still being checked.
func (r *Registration) Valid() bool {
	for _, name := range r.fields.order {
		if r.Status(name) != validation.StatusValid {
			return false
		}
	}
	return true
}

// Submit commits outstanding input and registers the account.
func (r *Registration) Submit(ctx context.Context, registrar Registrar) error {
	for _, name := range r.fields.order {
		r.apply(name)
	}
	r.fields.touchAll()
	if !r.Valid() {
		return &SubmissionError{Kind: KindInvalid, Message: MsgInvalid, Err: ErrFormInvalid}
	}
	reg := model.Registration{
		Username: r.fields.value(FieldUsername),
		Email:    r.fields.value(FieldEmail),
		Password: r.fields.value(FieldPassword),
	}
	if err := registrar.Register(ctx, reg); err != nil {
		r.log.Error("registration failed", "username", reg.Username, "error", err)
		return &SubmissionError{Kind: KindRemote, Message: MsgRegisterFailed, Status: statusOf(err), Err: err}
	}
	r.log.Info("registration successful", "username", reg.Username)
	return nil
}

// Login is the sign-in form.
type Login struct {
	fields *group
	log    *slog.Logger
}

// NewLogin returns an empty sign-in form.
func NewLogin(log *slog.Logger) *Login {
	if log == nil {
		log = slog.Default()
	}
	l := &Login{fields: newGroup(loginSpecs()), log: log}
	l.fields.load(nil)
	return l
}

// SetField sets and validates one field.
func (l *Login) SetField(name, value string) error {
	if err := l.fields.set(name, value); err != nil {
		return fmt.Errorf("%w: %s", err, name)
	}
	return nil
}

// Field returns the state of name.
func (l *Login) Field(name string) (FieldState, error) {
	f, ok := l.fields.get(name)
	if !ok {
		return FieldState{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return f.state(), nil
}

// Valid reports whether both fields are filled in.
func (l *Login) Valid() bool { return l.fields.valid() }

// Submit exchanges the credentials for a token and stores the session.
func (l *Login) Submit(ctx context.Context, auth Authenticator, sessions SessionWriter) error {
	if !l.Valid() {
		l.fields.touchAll()
		return &SubmissionError{Kind: KindInvalid, Message: MsgInvalid, Err: ErrFormInvalid}
	}
	creds := model.Credentials{
		Username: l.fields.value(FieldUsername),
		Password: l.fields.value(FieldPassword),
	}
	token, err := auth.Login(ctx, creds)
	if err != nil {
		l.log.Warn("login failed", "username", creds.Username, "error", err)
		return &SubmissionError{Kind: KindRemote, Message: MsgLoginFailed, Status: statusOf(err), Err: err}
	}
	if err := sessions.Save(ctx, token, creds.Username); err != nil {
		l.log.Error("saving session failed", "username", creds.Username, "error", err)
		return &SubmissionError{Kind: KindRemote, Message: MsgLoginFailed, Err: err}
	}
	return nil
}

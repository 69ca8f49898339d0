package google

import (
	"context"

	"golang.org/x/time/rate"
	people "google.golang.org/api/people/v1"

	"github.com/agentstation/contactsync/pkg/constants"
	"github.com/agentstation/contactsync/pkg/contacts"
	"github.com/agentstation/contactsync/pkg/errors"
)

// Service is one user's contacts, backed by the People API.
type Service struct {
	svc     *people.Service
	limiter *rate.Limiter
}

var _ contacts.Service = (*Service)(nil)

// Groups implements contacts.Service.
func (s *Service) Groups(ctx context.Context) ([]contacts.Group, error) {
	var out []contacts.Group
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := s.svc.ContactGroups.List().
			GroupFields(groupFields).
			PageSize(constants.PeoplePageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, wrapAPI(err)
		}
		for _, g := range page.ContactGroups {
			out = append(out, toGroup(g))
		}
		if pageToken = page.NextPageToken; pageToken == "" {
			return out, nil
		}
	}
}

// CreateGroup implements contacts.Service.
func (s *Service) CreateGroup(ctx context.Context, group contacts.Group) (contacts.Group, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return contacts.Group{}, err
	}
	created, err := s.svc.ContactGroups.Create(&people.CreateContactGroupRequest{
		ContactGroup:    toContactGroup(group),
		ReadGroupFields: groupFields,
	}).Context(ctx).Do()
	if err != nil {
		return contacts.Group{}, wrapAPI(err)
	}
	return toGroup(created), nil
}

// DeleteGroup implements contacts.Service. Member contacts are kept.
func (s *Service) DeleteGroup(ctx context.Context, group contacts.Group) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.svc.ContactGroups.Delete(group.ID).DeleteContacts(false).Context(ctx).Do()
	return wrapAPI(err)
}

// Contacts implements contacts.Service.
func (s *Service) Contacts(ctx context.Context, query contacts.Query) ([]contacts.Contact, error) {
	if query.GroupID == "" {
		return s.connections(ctx, query.MaxResults)
	}

	maxMembers := query.MaxResults
	if maxMembers <= 0 {
		maxMembers = constants.DefaultMaxContacts
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	group, err := s.svc.ContactGroups.Get(query.GroupID).
		MaxMembers(int64(maxMembers)).
		GroupFields("name").
		Context(ctx).Do()
	if err != nil {
		return nil, wrapAPI(err)
	}

	names := group.MemberResourceNames
	out := make([]contacts.Contact, 0, len(names))
	for start := 0; start < len(names); start += constants.MaxPeopleBatchGet {
		end := min(start+constants.MaxPeopleBatchGet, len(names))
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := s.svc.People.GetBatchGet().
			ResourceNames(names[start:end]...).
			PersonFields(personFields).
			Context(ctx).Do()
		if err != nil {
			return nil, wrapAPI(err)
		}
		for _, r := range resp.Responses {
			if r == nil || r.Person == nil {
				continue
			}
			out = append(out, toContact(r.Person))
		}
	}
	return out, nil
}

func (s *Service) connections(ctx context.Context, maxResults int) ([]contacts.Contact, error) {
	var out []contacts.Contact
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := s.svc.People.Connections.List("people/me").
			PersonFields(personFields).
			PageSize(constants.PeoplePageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, wrapAPI(err)
		}
		for _, p := range page.Connections {
			out = append(out, toContact(p))
		}
		pageToken = page.NextPageToken
		if pageToken == "" || (maxResults > 0 && len(out) >= maxResults) {
			return truncate(out, maxResults), nil
		}
	}
}

// Update implements contacts.Service. Only names and the note are written.
func (s *Service) Update(ctx context.Context, contact contacts.Contact) (contacts.Contact, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return contacts.Contact{}, err
	}
	updated, err := s.svc.People.UpdateContact(contact.ID, toPerson(contact)).
		UpdatePersonFields(updateFields).
		PersonFields(personFields).
		Context(ctx).Do()
	if err != nil {
		return contacts.Contact{}, wrapAPI(err)
	}
	return toContact(updated), nil
}

// Delete implements contacts.Service.
func (s *Service) Delete(ctx context.Context, contact contacts.Contact) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := s.svc.People.DeleteContact(contact.ID).Context(ctx).Do()
	return wrapAPI(err)
}

// ExecuteBatch implements contacts.Service. Operations are grouped by type
// into the People API batch endpoints, split at the endpoint limits. A
// failed endpoint call marks its own operations as failed and leaves the
// others alone, so the returned error is always nil.
func (s *Service) ExecuteBatch(ctx context.Context, req contacts.BatchRequest) ([]contacts.BatchResult, error) {
	ops := req.Operations
	results := make([]contacts.BatchResult, len(ops))

	var inserts, updates, deletes []int
	for i, op := range ops {
		results[i] = contacts.BatchResult{ID: op.ID, Type: op.Type}
		switch op.Type {
		case contacts.OperationInsert:
			inserts = append(inserts, i)
		case contacts.OperationUpdate:
			updates = append(updates, i)
		case contacts.OperationDelete:
			deletes = append(deletes, i)
		default:
			results[i].Status = contacts.StatusText(400)
			results[i].Reason = "unsupported operation " + string(op.Type)
		}
	}

	for _, chunk := range chunks(inserts, constants.MaxPeopleBatchCreate) {
		s.batchCreate(ctx, ops, chunk, results)
	}
	for _, chunk := range chunks(updates, constants.MaxPeopleBatchCreate) {
		s.batchUpdate(ctx, ops, chunk, results)
	}
	for _, chunk := range chunks(deletes, constants.MaxPeopleBatchDelete) {
		s.batchDelete(ctx, ops, chunk, results)
	}
	return results, nil
}

func (s *Service) batchCreate(ctx context.Context, ops []contacts.Operation, idx []int, results []contacts.BatchResult) {
	if err := s.limiter.Wait(ctx); err != nil {
		failAll(results, idx, err)
		return
	}
	batch := make([]*people.ContactToCreate, len(idx))
	for j, i := range idx {
		batch[j] = &people.ContactToCreate{ContactPerson: toPerson(ops[i].Contact)}
	}
	resp, err := s.svc.People.BatchCreateContacts(&people.BatchCreateContactsRequest{
		Contacts: batch,
		ReadMask: personFields,
	}).Context(ctx).Do()
	if err != nil {
		failAll(results, idx, err)
		return
	}
	for j, i := range idx {
		var r *people.PersonResponse
		if j < len(resp.CreatedPeople) {
			r = resp.CreatedPeople[j]
		}
		applyResponse(&results[i], r)
	}
}

func (s *Service) batchUpdate(ctx context.Context, ops []contacts.Operation, idx []int, results []contacts.BatchResult) {
	if err := s.limiter.Wait(ctx); err != nil {
		failAll(results, idx, err)
		return
	}
	batch := make(map[string]people.Person, len(idx))
	for _, i := range idx {
		batch[ops[i].Contact.ID] = *toPerson(ops[i].Contact)
	}
	resp, err := s.svc.People.BatchUpdateContacts(&people.BatchUpdateContactsRequest{
		Contacts:   batch,
		UpdateMask: updateFields,
		ReadMask:   personFields,
	}).Context(ctx).Do()
	if err != nil {
		failAll(results, idx, err)
		return
	}
	for _, i := range idx {
		r, ok := resp.UpdateResult[ops[i].Contact.ID]
		if !ok {
			applyResponse(&results[i], nil)
			continue
		}
		applyResponse(&results[i], &r)
	}
}

func (s *Service) batchDelete(ctx context.Context, ops []contacts.Operation, idx []int, results []contacts.BatchResult) {
	if err := s.limiter.Wait(ctx); err != nil {
		failAll(results, idx, err)
		return
	}
	names := make([]string, len(idx))
	for j, i := range idx {
		names[j] = ops[i].Contact.ID
	}
	_, err := s.svc.People.BatchDeleteContacts(&people.BatchDeleteContactsRequest{
		ResourceNames: names,
	}).Context(ctx).Do()
	if err != nil {
		failAll(results, idx, err)
		return
	}
	for _, i := range idx {
		results[i].Status = contacts.StatusText(200)
		c := ops[i].Contact
		results[i].Contact = &c
	}
}

func failAll(results []contacts.BatchResult, idx []int, err error) {
	for _, i := range idx {
		results[i].Status = contacts.StatusText(statusCode(err))
		results[i].Reason = err.Error()
	}
}

func chunks(idx []int, size int) [][]int {
	var out [][]int
	for len(idx) > size {
		out = append(out, idx[:size])
		idx = idx[size:]
	}
	if len(idx) > 0 {
		out = append(out, idx)
	}
	return out
}

// Sessions opens People API sessions impersonating each target user.
type Sessions struct {
	creds   *Credentials
	opts    []Option
	limiter *rate.Limiter
}

// NewSessions creates a session factory. The request pacing is shared by
// every session it opens.
func NewSessions(creds *Credentials, opts ...Option) *Sessions {
	return &Sessions{creds: creds, opts: opts, limiter: newSettings(opts).limiter()}
}

// Session implements contacts.SessionFactory.
func (s *Sessions) Session(ctx context.Context, user string) (contacts.Service, error) {
	clientOpts, err := newSettings(s.opts).clientOptions(ctx, s.creds, user, people.ContactsScope)
	if err != nil {
		return nil, err
	}
	svc, err := people.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.WrapResource("open", "people session", user, err)
	}
	return &Service{svc: svc, limiter: s.limiter}, nil
}

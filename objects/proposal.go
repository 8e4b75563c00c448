package objects

import "time"

// ApprovalSet tracks the authorizers who have approved a proposal so far,
// split the same way required authorities are split (active accounts, owner
// accounts, raw keys).
type ApprovalSet struct {
	Accounts map[ID]struct{}
	Owners   map[ID]struct{}
	Keys     map[PubKey]struct{}
}

// NewApprovalSet returns an empty, initialized approval set.
func NewApprovalSet() ApprovalSet {
	return ApprovalSet{
		Accounts: make(map[ID]struct{}),
		Owners:   make(map[ID]struct{}),
		Keys:     make(map[PubKey]struct{}),
	}
}

func (s ApprovalSet) Clone() ApprovalSet {
	out := NewApprovalSet()
	for k := range s.Accounts {
		out.Accounts[k] = struct{}{}
	}
	for k := range s.Owners {
		out.Owners[k] = struct{}{}
	}
	for k := range s.Keys {
		out.Keys[k] = struct{}{}
	}
	return out
}

// Proposal packages a set of operations awaiting sufficient approvals
// (possibly combined with a mandatory review period) for atomic execution.
type Proposal struct {
	ID                     ID
	ProposedTransaction    RawTransaction // opaque encoded operations, decoded by eval's executeProposal
	RequiredActiveApprovals []ID
	RequiredOwnerApprovals  []ID
	AvailableApprovals      ApprovalSet
	ExpirationTime          time.Time
	ReviewPeriodTime        *time.Time // nil means no review period required
}

func (p *Proposal) Clone() *Proposal {
	if p == nil {
		return nil
	}
	cp := *p
	cp.RequiredActiveApprovals = append([]ID(nil), p.RequiredActiveApprovals...)
	cp.RequiredOwnerApprovals = append([]ID(nil), p.RequiredOwnerApprovals...)
	cp.AvailableApprovals = p.AvailableApprovals.Clone()
	cp.ProposedTransaction = p.ProposedTransaction.Clone()
	if p.ReviewPeriodTime != nil {
		t := *p.ReviewPeriodTime
		cp.ReviewPeriodTime = &t
	}
	return &cp
}

// InReviewPeriod reports whether approvals on this proposal are frozen at
// the given head time (spec.md §4.C proposal update: "after [review period
// time], updates are rejected").
func (p *Proposal) InReviewPeriod(headTime time.Time) bool {
	return p.ReviewPeriodTime != nil && !headTime.Before(*p.ReviewPeriodTime)
}

// DirectlyAuthorized reports whether every account in the required active
// and owner lists appears verbatim among the available account or owner
// approvals. Authorities are not resolved recursively: the proposal-update
// evaluator executes the proposal as soon as this returns true.
func (p *Proposal) DirectlyAuthorized() bool {
	satisfied := func(required []ID, approvedOwners, approvedActive map[ID]struct{}) bool {
		for _, id := range required {
			_, activeOK := approvedActive[id]
			_, ownerOK := approvedOwners[id]
			if !activeOK && !ownerOK {
				return false
			}
		}
		return true
	}
	return satisfied(p.RequiredActiveApprovals, p.AvailableApprovals.Owners, p.AvailableApprovals.Accounts) &&
		satisfied(p.RequiredOwnerApprovals, p.AvailableApprovals.Owners, p.AvailableApprovals.Owners)
}

package objects

import "testing"

func TestAuthorityMembershipCount(t *testing.T) {
	a := NewAuthority(2)
	a.AccountAuths[NewID(SpaceProtocol, TypeAccount, 1)] = 1
	a.KeyAuths[PubKey{0x01}] = 1
	a.AddressAuths[LegacyAddress{0x02}] = 1

	if got, want := a.MembershipCount(), 3; got != want {
		t.Fatalf("MembershipCount() = %d, want %d", got, want)
	}
}

func TestAuthorityCloneIsIndependent(t *testing.T) {
	a := NewAuthority(1)
	acct := NewID(SpaceProtocol, TypeAccount, 5)
	a.AccountAuths[acct] = 1

	clone := a.Clone()
	clone.AccountAuths[acct] = 99
	clone.Threshold = 100

	if a.AccountAuths[acct] != 1 {
		t.Fatalf("mutating clone affected original: %d", a.AccountAuths[acct])
	}
	if a.Threshold != 1 {
		t.Fatalf("mutating clone's threshold affected original: %d", a.Threshold)
	}
}

func TestAuthoritySortedAccountAuthsIsDeterministic(t *testing.T) {
	a := NewAuthority(1)
	a.AccountAuths[NewID(SpaceProtocol, TypeAccount, 3)] = 1
	a.AccountAuths[NewID(SpaceProtocol, TypeAccount, 1)] = 2
	a.AccountAuths[NewID(SpaceProtocol, TypeAccount, 2)] = 3

	sorted := a.SortedAccountAuths()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(sorted))
	}
	for i := 1; i < len(sorted); i++ {
		if !sorted[i-1].ID.Less(sorted[i].ID) {
			t.Fatalf("entries not in ascending id order: %v", sorted)
		}
	}
}

func TestAccountCloneDeepCopiesAuthoritiesAndVotes(t *testing.T) {
	acct := &Account{
		ID:     NewID(SpaceProtocol, TypeAccount, 1),
		Name:   "alice",
		Owner:  NewAuthority(1),
		Active: NewAuthority(1),
		Options: VotingOptions{
			Votes: []ID{NewID(SpaceProtocol, TypeWitness, 1)},
		},
	}
	acct.Owner.AccountAuths[NewID(SpaceProtocol, TypeAccount, 2)] = 1

	clone := acct.Clone()
	clone.Owner.AccountAuths[NewID(SpaceProtocol, TypeAccount, 2)] = 50
	clone.Options.Votes[0] = NewID(SpaceProtocol, TypeWitness, 2)

	if acct.Owner.AccountAuths[NewID(SpaceProtocol, TypeAccount, 2)] != 1 {
		t.Fatalf("clone mutation leaked into original owner authority")
	}
	if acct.Options.Votes[0] != NewID(SpaceProtocol, TypeWitness, 1) {
		t.Fatalf("clone mutation leaked into original votes slice")
	}
}

func TestAccountCloneNilReceiver(t *testing.T) {
	var acct *Account
	if acct.Clone() != nil {
		t.Fatalf("expected Clone of nil receiver to return nil")
	}
}

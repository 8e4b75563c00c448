package store

import (
	"time"

	"github.com/graphene-chain/core/objects"
)

// EqualRange visits every object of T whose secondary key equals key, in id
// order among ties, implementing spec.md §9's equal_range requirement (used
// e.g. to enumerate every balance object for one account across all
// assets, or every proposal approval lookup by account).
func EqualRange[K any, T any](idx *Index[T], name string, key K, less LessFunc[K], fn func(objects.ID, T) bool) {
	LowerBound(idx, name, key, func(k K, id objects.ID, v T) bool {
		if less(key, k) {
			return false
		}
		return fn(id, v)
	})
}

// FindByName looks up the account with the given name, if any.
func (s *Store) FindByName(name string) (*objects.Account, bool) {
	var found *objects.Account
	LowerBound[string, *objects.Account](s.Accounts, "by_name", name, func(k string, id objects.ID, v *objects.Account) bool {
		if k != name {
			return false
		}
		found = v
		return false
	})
	return found, found != nil
}

// FindBySymbol looks up the asset with the given ticker symbol, if any.
func (s *Store) FindBySymbol(symbol string) (*objects.Asset, bool) {
	var found *objects.Asset
	LowerBound[string, *objects.Asset](s.Assets, "by_symbol", symbol, func(k string, id objects.ID, v *objects.Asset) bool {
		if k != symbol {
			return false
		}
		found = v
		return false
	})
	return found, found != nil
}

// AscendDueForceSettlements visits every force-settlement object whose
// settlement date has passed at cutoff, in expiration order. Wrapping the
// by_expiration secondary index here (instead of exposing its key type)
// keeps forceSettleKey private to this package.
func (s *Store) AscendDueForceSettlements(cutoff time.Time, fn func(objects.ID, *objects.ForceSettlement) bool) {
	zero := forceSettleKey{}
	LowerBound[forceSettleKey, *objects.ForceSettlement](s.ForceSettlements, "by_expiration", zero, func(k forceSettleKey, id objects.ID, v *objects.ForceSettlement) bool {
		if k.When.After(cutoff) {
			return false
		}
		return fn(id, v)
	})
}

// AscendAccountBalances visits every balance object an account holds, across
// all assets, in asset-id order.
func (s *Store) AscendAccountBalances(account objects.ID, fn func(objects.ID, *objects.AccountBalance) bool) {
	key := accountAssetKey{Account: account}
	LowerBound[accountAssetKey, *objects.AccountBalance](s.Balances, "by_account_asset", key, func(k accountAssetKey, id objects.ID, v *objects.AccountBalance) bool {
		if k.Account != account {
			return false
		}
		return fn(id, v)
	})
}

// FindBalance looks up an account's balance object for one asset, if any.
func (s *Store) FindBalance(account, asset objects.ID) (*objects.AccountBalance, bool) {
	var found *objects.AccountBalance
	key := accountAssetKey{Account: account, Asset: asset}
	LowerBound[accountAssetKey, *objects.AccountBalance](s.Balances, "by_account_asset", key, func(k accountAssetKey, id objects.ID, v *objects.AccountBalance) bool {
		if k != key {
			return false
		}
		found = v
		return false
	})
	return found, found != nil
}

package objects

import (
	"math/big"
	"time"
)

// AssetFlag is a bitmask over the permission/behavior toggles an asset can
// carry, per spec.md §4.C.
type AssetFlag uint32

const (
	FlagChargeMarketFee AssetFlag = 1 << iota
	FlagWhiteList
	FlagOverrideAuthority
	FlagTransferRestricted
	FlagDisableForceSettle
	FlagGlobalSettle
	FlagWitnessFedAsset
	FlagCommitteeFedAsset
	FlagMarketIssued
)

// Has reports whether every bit in mask is set.
func (f AssetFlag) Has(mask AssetFlag) bool { return f&mask == mask }

// AssetOptions bundles the configurable, non-identity fields of an asset.
type AssetOptions struct {
	MaxSupply         *big.Int
	Flags             AssetFlag
	IssuerPermissions AssetFlag // must be superset of Flags; cannot be widened post-creation
	MarketFeePercent  uint16    // basis points, 0..10000
	MaxMarketFee      *big.Int
	CoreExchangeRate  Price
}

// Clone deep-copies the options.
func (o AssetOptions) Clone() AssetOptions {
	out := o
	if o.MaxSupply != nil {
		out.MaxSupply = new(big.Int).Set(o.MaxSupply)
	}
	if o.MaxMarketFee != nil {
		out.MaxMarketFee = new(big.Int).Set(o.MaxMarketFee)
	}
	out.CoreExchangeRate = o.CoreExchangeRate.Clone()
	return out
}

// Asset is the token definition object. Market-issued assets additionally
// reference a BitassetData object via BitassetDataID.
type Asset struct {
	ID             ID
	Symbol         string // uppercase, at most one dot, 3-17 chars
	Precision      uint8  // 0..18
	Issuer         ID
	Options        AssetOptions
	DynamicDataID  ID
	BitassetDataID ID // zero value means not a market-issued asset
}

func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Options = a.Options.Clone()
	return &cp
}

// IsMarketIssued reports whether the asset is backed by collateralized debt.
func (a *Asset) IsMarketIssued() bool {
	return a.Options.Flags.Has(FlagMarketIssued) && !a.BitassetDataID.IsZero()
}

// PriceFeed is a signed tuple submitted by a recognized producer.
type PriceFeed struct {
	SettlementPrice  Price
	MaintenanceRatio uint16 // e.g. 17500 == 1.75x, basis-point encoded
	MaxShortSqueeze  uint16 // basis-point encoded ratio, e.g. 15000 == 1.5x
}

// ProducerFeed pairs a feed with the time it was published, for staleness
// and median-of-recent aggregation.
type ProducerFeed struct {
	Producer  ID
	Feed      PriceFeed
	Timestamp time.Time
}

// BitassetOptions bundles the configurable fields specific to market-issued
// assets.
type BitassetOptions struct {
	ForceSettleOffsetPercent uint16 // basis points deducted from settlement price
	ForceSettleDelay         time.Duration
	MinimumFeeds             uint16
}

// BitassetData tracks the collateralization state of a market-issued asset.
type BitassetData struct {
	ID              ID
	AssetID         ID
	BackingAssetID  ID
	CurrentFeed     PriceFeed // zero value with MaintenanceRatio==0 means "no current feed"
	HasCurrentFeed  bool
	Feeds           []ProducerFeed
	SettlementPrice Price // non-zero iff globally settled
	SettlementFund  *big.Int
	Settled         bool
	Options         BitassetOptions
}

func (b *BitassetData) Clone() *BitassetData {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Feeds = append([]ProducerFeed(nil), b.Feeds...)
	cp.CurrentFeed.SettlementPrice = b.CurrentFeed.SettlementPrice.Clone()
	cp.SettlementPrice = b.SettlementPrice.Clone()
	if b.SettlementFund != nil {
		cp.SettlementFund = new(big.Int).Set(b.SettlementFund)
	}
	return &cp
}

// HasSettlement reports whether the asset has undergone global settlement
// (invariant 3 in spec.md §3).
func (b *BitassetData) HasSettlement() bool {
	return b.Settled
}

// AssetDynamicData tracks the mutable supply/fee counters separated from the
// mostly-static Asset object so frequent updates don't rewrite issuer/symbol
// fields.
type AssetDynamicData struct {
	ID              ID
	AssetID         ID
	CurrentSupply   *big.Int
	AccumulatedFees *big.Int
}

func (d *AssetDynamicData) Clone() *AssetDynamicData {
	if d == nil {
		return nil
	}
	cp := *d
	if d.CurrentSupply != nil {
		cp.CurrentSupply = new(big.Int).Set(d.CurrentSupply)
	}
	if d.AccumulatedFees != nil {
		cp.AccumulatedFees = new(big.Int).Set(d.AccumulatedFees)
	}
	return &cp
}

// AccountBalance is unique per (Account, Asset) pair.
type AccountBalance struct {
	ID      ID
	Account ID
	Asset   ID
	Amount  *big.Int
}

func (b *AccountBalance) Clone() *AccountBalance {
	if b == nil {
		return nil
	}
	cp := *b
	if b.Amount != nil {
		cp.Amount = new(big.Int).Set(b.Amount)
	}
	return &cp
}

// GenesisBalance is a pre-chain balance commitment seeded at genesis,
// claimable once by whoever proves ownership of OwnerKey via
// BalanceClaim. A nonzero VestingSeconds makes the claimed amount land in a
// VestingBalance instead of a spendable balance.
type GenesisBalance struct {
	ID             ID
	OwnerKey       PubKey
	Balance        Amount
	VestingSeconds uint32
	Claimed        bool
}

func (g *GenesisBalance) Clone() *GenesisBalance {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Balance.Value = new(big.Int).Set(g.Balance.Value)
	return &cp
}

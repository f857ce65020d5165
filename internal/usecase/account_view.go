package usecase

import (
	"context"
	"sort"
	"strings"

	"toda-flag-service/internal/domain/entity"
	"toda-flag-service/internal/domain/repository"
	"toda-flag-service/pkg/logger"
)

// DefaultPageSize is the fixed page size of the account roll-up list.
const DefaultPageSize = 25

// AccountSummary is one row of the account roll-up list. Score and tier are
// derived from the active flags at read time, not from the cached
// projection, so a stale cache never leaks into the view.
type AccountSummary struct {
	AccountID    string         `json:"accountId"`
	AccountType  string         `json:"accountType"`
	AccountName  string         `json:"accountName"`
	AccountPhone string         `json:"accountPhone"`
	AccountEmail string         `json:"accountEmail"`
	FlagScore    int            `json:"flagScore"`
	FlagStatus   string         `json:"flagStatus"`
	ActiveFlags  []*entity.Flag `json:"activeFlags"`
	TotalFlags   int            `json:"totalFlags"`
}

// AccountDetail joins one account's profile with its full flag history.
type AccountDetail struct {
	AccountSummary
	ResolvedFlags  []*entity.Flag `json:"resolvedFlags"`
	DismissedFlags []*entity.Flag `json:"dismissedFlags"`
	StatusCounts   map[string]int `json:"statusCounts"`
}

// TierStats is the stats header of the landing list.
type TierStats struct {
	Total      int `json:"total"`
	Suspended  int `json:"suspended"`
	Restricted int `json:"restricted"`
	Monitored  int `json:"monitored"`
	Good       int `json:"good"`
}

// ListQuery holds the client-side filters of the landing list.
type ListQuery struct {
	AccountType string // all | driver | customer
	FlagStatus  string // all | good | monitored | restricted | suspended
	FlaggedOnly string // all | flagged | clean
	Search      string
	Page        int
	PageSize    int
}

// AccountPage is one page of the filtered roll-up list.
type AccountPage struct {
	Accounts   []AccountSummary `json:"accounts"`
	TotalCount int              `json:"totalCount"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	Stats      TierStats        `json:"stats"`
}

// AccountViewBuilder joins account profiles with their flag sets into the
// list and detail views consumed by the admin UI.
type AccountViewBuilder struct {
	driverRepo    repository.DriverRepository
	passengerRepo repository.PassengerRepository
	flagRepo      repository.FlagRepository
	pageSize      int
	logger        logger.Logger
}

// NewAccountViewBuilder creates a new account view builder
func NewAccountViewBuilder(
	driverRepo repository.DriverRepository,
	passengerRepo repository.PassengerRepository,
	flagRepo repository.FlagRepository,
	pageSize int,
	logger logger.Logger,
) *AccountViewBuilder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &AccountViewBuilder{
		driverRepo:    driverRepo,
		passengerRepo: passengerRepo,
		flagRepo:      flagRepo,
		pageSize:      pageSize,
		logger:        logger,
	}
}

func summarize(id, accountType, name, phone, email string, flags []*entity.Flag) AccountSummary {
	var active []*entity.Flag
	score := 0
	for _, f := range flags {
		if f.IsActive() {
			active = append(active, f)
			score += f.Points
		}
	}
	sortFlags(active)

	if name == "" {
		if accountType == entity.CategoryDriver {
			name = "Unknown Driver"
		} else {
			name = "Unknown Customer"
		}
	}

	return AccountSummary{
		AccountID:    id,
		AccountType:  accountType,
		AccountName:  name,
		AccountPhone: phone,
		AccountEmail: email,
		FlagScore:    score,
		FlagStatus:   entity.TierForScore(score),
		ActiveFlags:  active,
		TotalFlags:   len(flags),
	}
}

// sortFlags orders flags by severity (worst first), then by recency.
func sortFlags(flags []*entity.Flag) {
	sort.SliceStable(flags, func(i, j int) bool {
		ri, rj := entity.SeverityRank(flags[i].Severity), entity.SeverityRank(flags[j].Severity)
		if ri != rj {
			return ri > rj
		}
		return flags[i].Timestamp.After(flags[j].Timestamp)
	})
}

// ListAccounts builds the roll-up of all drivers and passengers, sorted by
// descending score then name, filtered and paginated.
func (b *AccountViewBuilder) ListAccounts(ctx context.Context, query ListQuery) (*AccountPage, error) {
	drivers, err := b.driverRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	driverFlags, err := b.flagRepo.FindByCategory(ctx, entity.CategoryDriver)
	if err != nil {
		return nil, err
	}
	passengers, err := b.passengerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	userFlags, err := b.flagRepo.FindByCategory(ctx, entity.CategoryCustomer)
	if err != nil {
		return nil, err
	}

	accounts := make([]AccountSummary, 0, len(drivers)+len(passengers))
	for _, d := range drivers {
		accounts = append(accounts, summarize(
			d.ID, entity.CategoryDriver, d.DriverName, d.PhoneNumber, d.Email, driverFlags[d.ID]))
	}
	for _, p := range passengers {
		accounts = append(accounts, summarize(
			p.ID, entity.CategoryCustomer, p.Name, p.PhoneNumber, p.Email, userFlags[p.ID]))
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].FlagScore != accounts[j].FlagScore {
			return accounts[i].FlagScore > accounts[j].FlagScore
		}
		return accounts[i].AccountName < accounts[j].AccountName
	})

	stats := TierStats{Total: len(accounts)}
	for _, a := range accounts {
		switch a.FlagStatus {
		case entity.TierSuspended:
			stats.Suspended++
		case entity.TierRestricted:
			stats.Restricted++
		case entity.TierMonitored:
			stats.Monitored++
		default:
			stats.Good++
		}
	}

	filtered := filterAccounts(accounts, query)

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = b.pageSize
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return &AccountPage{
		Accounts:   filtered[start:end],
		TotalCount: len(filtered),
		Page:       page,
		TotalPages: totalPages,
		Stats:      stats,
	}, nil
}

func filterAccounts(accounts []AccountSummary, query ListQuery) []AccountSummary {
	search := strings.ToLower(strings.TrimSpace(query.Search))

	filtered := make([]AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		if query.AccountType != "" && query.AccountType != "all" && a.AccountType != query.AccountType {
			continue
		}
		if query.FlagStatus != "" && query.FlagStatus != "all" && a.FlagStatus != query.FlagStatus {
			continue
		}
		switch query.FlaggedOnly {
		case "flagged":
			if a.FlagScore == 0 {
				continue
			}
		case "clean":
			if a.FlagScore > 0 {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.AccountName), search) &&
			!strings.Contains(a.AccountPhone, search) &&
			!strings.Contains(strings.ToLower(a.AccountEmail), search) &&
			!strings.Contains(strings.ToLower(a.AccountID), search) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}

// BuildAccountView joins one account's profile with its full flag history
// (active, resolved and dismissed).
func (b *AccountViewBuilder) BuildAccountView(ctx context.Context, ref entity.AccountRef) (*AccountDetail, error) {
	var summary AccountSummary

	flags, err := b.flagRepo.FindByAccount(ctx, ref)
	if err != nil {
		return nil, err
	}

	if ref.Category == entity.CategoryDriver {
		d, err := b.driverRepo.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		summary = summarize(d.ID, entity.CategoryDriver, d.DriverName, d.PhoneNumber, d.Email, flags)
	} else {
		p, err := b.passengerRepo.FindByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		summary = summarize(p.ID, entity.CategoryCustomer, p.Name, p.PhoneNumber, p.Email, flags)
	}

	detail := &AccountDetail{
		AccountSummary: summary,
		StatusCounts: map[string]int{
			entity.FlagStatusActive:    0,
			entity.FlagStatusResolved:  0,
			entity.FlagStatusDismissed: 0,
		},
	}
	for _, f := range flags {
		detail.StatusCounts[f.Status]++
		switch f.Status {
		case entity.FlagStatusResolved:
			detail.ResolvedFlags = append(detail.ResolvedFlags, f)
		case entity.FlagStatusDismissed:
			detail.DismissedFlags = append(detail.DismissedFlags, f)
		}
	}
	sortFlags(detail.ResolvedFlags)
	sortFlags(detail.DismissedFlags)

	return detail, nil
}

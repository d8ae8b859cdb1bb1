package projections

import (
	"context"
	"sort"
	"strings"

	"autokudos/internal/application/listutil"
	"autokudos/internal/domain/category"
	"autokudos/internal/domain/member"
)

// MemberListFilters are the filters the member list accepts.
var MemberListFilters = []string{"status", "gender"}

// MemberRow is a member with their result count and current category.
type MemberRow struct {
	member.Member
	Results  int    `json:"results"`
	Category string `json:"category"`
}

// GetMemberListResult carries one page of members.
type GetMemberListResult struct {
	Members []MemberRow       `json:"members"`
	Page    listutil.PageInfo `json:"page"`
	Active  int               `json:"active"`
	Left    int               `json:"left"`
}

// GetMemberListDeps holds dependencies for QueryGetMemberList.
type GetMemberListDeps struct {
	Members  MemberLister
	Results  ResultLister
	Settings SettingsLoader
	Today    string
}

// QueryGetMemberList lists members alphabetically with their result counts.
// Category is computed for Today in the configured age mode.
// POST: Active and Left count the whole list, not just the page
func QueryGetMemberList(ctx context.Context, params listutil.Params, deps GetMemberListDeps) (GetMemberListResult, error) {
	members, err := deps.Members.List(ctx)
	if err != nil {
		return GetMemberListResult{}, err
	}
	results, err := deps.Results.List(ctx)
	if err != nil {
		return GetMemberListResult{}, err
	}
	st, err := deps.Settings.Load(ctx)
	if err != nil {
		return GetMemberListResult{}, err
	}

	counts := make(map[string]int, len(members))
	for _, r := range results {
		counts[r.Name]++
	}

	var out GetMemberListResult
	rows := make([]MemberRow, 0, len(members))
	for _, m := range members {
		if m.IsActive() {
			out.Active++
		} else {
			out.Left++
		}
		if s := params.Filters["status"]; s != "" && !strings.EqualFold(displayStatus(m), s) {
			continue
		}
		if g := params.Filters["gender"]; g != "" && m.Gender != member.NormalizeGender(g) {
			continue
		}
		if !listutil.Matches(params.Search, m.Name) {
			continue
		}
		rows = append(rows, MemberRow{
			Member:   m,
			Results:  counts[m.Name],
			Category: category.ClassifyOrUnknown(m.DOB, deps.Today, st.AgeMode),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	out.Members, out.Page = listutil.Paginate(rows, params.Page, params.PerPage)
	return out, nil
}

func displayStatus(m member.Member) string {
	if m.IsActive() {
		return member.StatusActive
	}
	return member.StatusLeft
}


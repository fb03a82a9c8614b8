// Package chart maintains the hierarchical chart of accounts ("plano de
// contas") and its derived views. All operations treat the tree as a value:
// mutations copy the touched path and return a new slice, leaving the caller's
// tree untouched.
package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
	"github.com/rfarias/partida/internal/mask"
)

// Leaf is the postable view of an analytic account used by entry pickers and
// the statement classifier.
type Leaf struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Category ledger.Category `json:"category"`
}

// CollectCodes returns every node code in pre-order.
func CollectCodes(tree []ledger.Account) []string {
	out := make([]string, 0, len(tree))
	walk(tree, func(a ledger.Account) {
		out = append(out, a.Code)
	})
	return out
}

// AnalyticLeaves returns all active leaf accounts sorted by code. Lexicographic
// order equals numeric order because mask segments are fixed width.
func AnalyticLeaves(tree []ledger.Account) []Leaf {
	out := make([]Leaf, 0)
	walk(tree, func(a ledger.Account) {
		if a.Kind != ledger.KindAnalytic || !a.Active {
			return
		}
		out = append(out, Leaf{Code: a.Code, Name: a.Name, Category: a.Category})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// FindByCode returns the node with the exact code.
func FindByCode(tree []ledger.Account, code string) (ledger.Account, bool) {
	return find(tree, func(a ledger.Account) bool { return a.Code == code })
}

// FindByID returns the node with the given id.
func FindByID(tree []ledger.Account, id uuid.UUID) (ledger.Account, bool) {
	return find(tree, func(a ledger.Account) bool { return a.ID == id })
}

// CategoryByCode infers an account category from the leading code digit.
// It is a safety net for lines whose account is missing from the current
// chart (e.g. freshly imported data), not the primary lookup path.
func CategoryByCode(code string) ledger.Category {
	switch {
	case strings.HasPrefix(code, "1"):
		return ledger.CategoryAsset
	case strings.HasPrefix(code, "2"):
		return ledger.CategoryLiability
	case strings.HasPrefix(code, "3"):
		return ledger.CategoryEquity
	case strings.HasPrefix(code, "4"):
		return ledger.CategoryRevenue
	case strings.HasPrefix(code, "5"):
		return ledger.CategoryExpense
	}
	return ""
}

// CategoryOf resolves a line's category from the chart, falling back to
// CategoryByCode when the code is not present in the tree.
func CategoryOf(tree []ledger.Account, code string) ledger.Category {
	if acc, ok := FindByCode(tree, code); ok && acc.Category != "" {
		return acc.Category
	}
	return CategoryByCode(code)
}

// NameOf returns the account name for a code, or the code itself when absent.
func NameOf(tree []ledger.Account, code string) string {
	if acc, ok := FindByCode(tree, code); ok {
		return acc.Name
	}
	return code
}

// Insert adds acc under the parent identified by parentCode (empty string for
// the root level). The code must match the mask, be unused, and extend the
// parent code by exactly one mask segment.
func Insert(tree []ledger.Account, parentCode string, acc ledger.Account, maskDef string) ([]ledger.Account, error) {
	if acc.Code == "" || acc.Name == "" {
		return nil, fmt.Errorf("%w: code and name are required", errs.ErrInvalid)
	}
	if !mask.Validate(acc.Code, maskDef) {
		return nil, fmt.Errorf("%w: %q against mask %q", errs.ErrInvalidCode, acc.Code, maskDef)
	}
	switch acc.Kind {
	case ledger.KindSynthetic, ledger.KindAnalytic:
	default:
		return nil, fmt.Errorf("%w: kind must be synthetic or analytic", errs.ErrInvalid)
	}
	switch acc.Category {
	case ledger.CategoryAsset, ledger.CategoryLiability, ledger.CategoryEquity, ledger.CategoryRevenue, ledger.CategoryExpense:
	default:
		return nil, fmt.Errorf("%w: invalid category", errs.ErrInvalid)
	}
	if _, exists := FindByCode(tree, acc.Code); exists {
		return nil, fmt.Errorf("%w: %s", errs.ErrCodeExists, acc.Code)
	}

	if parentCode == "" {
		if mask.Level(acc.Code) != 0 {
			return nil, fmt.Errorf("%w: %q is not a root-level code", errs.ErrInvalidCode, acc.Code)
		}
		out := cloneLevel(tree)
		out = append(out, acc)
		return out, nil
	}

	parent, ok := FindByCode(tree, parentCode)
	if !ok {
		return nil, fmt.Errorf("%w: parent %s", errs.ErrNotFound, parentCode)
	}
	if parent.Kind != ledger.KindSynthetic {
		return nil, fmt.Errorf("%w: parent %s is analytic and cannot own children", errs.ErrInvalid, parentCode)
	}
	if p, _ := mask.Parent(acc.Code); p != parentCode {
		return nil, fmt.Errorf("%w: %q does not extend parent %q by one segment", errs.ErrInvalidCode, acc.Code, parentCode)
	}

	out, changed := mapNode(tree, parent.ID, func(n ledger.Account) ledger.Account {
		n.Children = append(cloneLevel(n.Children), acc)
		return n
	})
	if !changed {
		return nil, fmt.Errorf("%w: parent %s", errs.ErrNotFound, parentCode)
	}
	return out, nil
}

// Update replaces the descriptive fields (name, active) of the node with
// acc.ID. Code, kind and category are fixed at creation.
func Update(tree []ledger.Account, acc ledger.Account) ([]ledger.Account, error) {
	out, changed := mapNode(tree, acc.ID, func(n ledger.Account) ledger.Account {
		n.Name = acc.Name
		n.Active = acc.Active
		return n
	})
	if !changed {
		return nil, errs.ErrNotFound
	}
	return out, nil
}

// Delete removes the node with the given id. Without cascade, a node that
// still owns children is rejected: children are never silently promoted, the
// caller must reparent or delete them explicitly.
func Delete(tree []ledger.Account, id uuid.UUID, cascade bool) ([]ledger.Account, error) {
	node, ok := FindByID(tree, id)
	if !ok {
		return nil, errs.ErrNotFound
	}
	if len(node.Children) > 0 && !cascade {
		return nil, fmt.Errorf("%w: %s", errs.ErrHasChildren, node.Code)
	}
	out, _ := remove(tree, id)
	return out, nil
}

func walk(tree []ledger.Account, fn func(ledger.Account)) {
	for _, a := range tree {
		fn(a)
		walk(a.Children, fn)
	}
}

func find(tree []ledger.Account, match func(ledger.Account) bool) (ledger.Account, bool) {
	for _, a := range tree {
		if match(a) {
			return a, true
		}
		if found, ok := find(a.Children, match); ok {
			return found, true
		}
	}
	return ledger.Account{}, false
}

// mapNode rewrites the node with the given id via fn, copying only the path
// from the root to that node.
func mapNode(tree []ledger.Account, id uuid.UUID, fn func(ledger.Account) ledger.Account) ([]ledger.Account, bool) {
	for i, a := range tree {
		if a.ID == id {
			out := cloneLevel(tree)
			out[i] = fn(a)
			return out, true
		}
		if children, ok := mapNode(a.Children, id, fn); ok {
			out := cloneLevel(tree)
			out[i].Children = children
			return out, true
		}
	}
	return tree, false
}

func remove(tree []ledger.Account, id uuid.UUID) ([]ledger.Account, bool) {
	for i, a := range tree {
		if a.ID == id {
			out := make([]ledger.Account, 0, len(tree)-1)
			out = append(out, tree[:i]...)
			out = append(out, tree[i+1:]...)
			return out, true
		}
		if children, ok := remove(a.Children, id); ok {
			out := cloneLevel(tree)
			out[i].Children = children
			return out, true
		}
	}
	return tree, false
}

func cloneLevel(tree []ledger.Account) []ledger.Account {
	out := make([]ledger.Account, len(tree))
	copy(out, tree)
	return out
}

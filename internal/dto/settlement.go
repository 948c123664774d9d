package dto

import "github.com/SscSPs/expense_split_app/internal/core/domain"

// MaxBulkItems bounds one settle or delete request.
const MaxBulkItems = 200

// ShareRefInput names one expense share or loan share.
type ShareRefInput struct {
	Kind    domain.SourceKind `json:"kind" binding:"required,oneof=EXPENSE LOAN"`
	ShareID string            `json:"shareID" binding:"required"`
}

// SourceRefInput names one expense or loan.
type SourceRefInput struct {
	Kind     domain.SourceKind `json:"kind" binding:"required,oneof=EXPENSE LOAN"`
	SourceID string            `json:"sourceID" binding:"required"`
}

// SettleSharesRequest marks every listed share paid or settled in one transaction.
type SettleSharesRequest struct {
	Items []ShareRefInput `json:"items" binding:"required,min=1,max=200,dive"`
}

// DeleteSourcesRequest deletes every listed expense or loan in one transaction.
type DeleteSourcesRequest struct {
	Items []SourceRefInput `json:"items" binding:"required,min=1,max=200,dive"`
}

// ToShareRefs converts the request items to domain refs.
func (r SettleSharesRequest) ToShareRefs() []domain.ShareRef {
	refs := make([]domain.ShareRef, len(r.Items))
	for i, it := range r.Items {
		refs[i] = domain.ShareRef{Kind: it.Kind, ShareID: it.ShareID}
	}
	return refs
}

// ToSourceRefs converts the request items to domain refs.
func (r DeleteSourcesRequest) ToSourceRefs() []domain.SourceRef {
	refs := make([]domain.SourceRef, len(r.Items))
	for i, it := range r.Items {
		refs[i] = domain.SourceRef{Kind: it.Kind, SourceID: it.SourceID}
	}
	return refs
}

type BulkItemResponse struct {
	Kind    domain.SourceKind  `json:"kind"`
	ID      string             `json:"id"`
	Outcome domain.ItemOutcome `json:"outcome"`
}

// BulkResultResponse reports every item of a bulk mutation plus counts per outcome.
type BulkResultResponse struct {
	Items       []BulkItemResponse `json:"items"`
	Applied     int                `json:"applied"`
	AlreadyDone int                `json:"alreadyDone"`
	NotFound    int                `json:"notFound"`
	Forbidden   int                `json:"forbidden"`
}

// ToBulkItemResponse reports the outcome of a single settle or delete.
func ToBulkItemResponse(it domain.BulkItemResult) BulkItemResponse {
	return BulkItemResponse{Kind: it.Kind, ID: it.ID, Outcome: it.Outcome}
}

func ToBulkResultResponse(r domain.BulkResult) BulkResultResponse {
	items := make([]BulkItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = ToBulkItemResponse(it)
	}
	return BulkResultResponse{
		Items:       items,
		Applied:     r.Count(domain.OutcomeApplied),
		AlreadyDone: r.Count(domain.OutcomeAlreadyDone),
		NotFound:    r.Count(domain.OutcomeNotFound),
		Forbidden:   r.Count(domain.OutcomeForbidden),
	}
}

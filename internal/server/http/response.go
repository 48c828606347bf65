package httpserver

import (
	"time"

	"github.com/siglab/publication-service/internal/domain"
)

// Publication response types for JSON serialization.

type publicationResponse struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Year              *int                 `json:"year"`
	Venue             string               `json:"venue,omitempty"`
	Type              string               `json:"type"`
	AuthorsFullString string               `json:"authors_full_string"`
	RawAuthors        string               `json:"raw_authors,omitempty"`
	DOIURL            string               `json:"doi_url,omitempty"`
	PDFURL            string               `json:"pdf_url,omitempty"`
	Abstract          string               `json:"abstract,omitempty"`
	Keywords          string               `json:"keywords,omitempty"`
	Volume            string               `json:"volume,omitempty"`
	Number            string               `json:"number,omitempty"`
	Pages             string               `json:"pages,omitempty"`
	Publisher         string               `json:"publisher,omitempty"`
	Status            string               `json:"status"`
	Source            string               `json:"source"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Authors           []authorLinkResponse `json:"authors,omitempty"`
}

type authorLinkResponse struct {
	MemberID        string `json:"member_id"`
	AuthorOrder     int    `json:"author_order"`
	IsCorresponding bool   `json:"is_corresponding"`
}

type listPublicationsResponse struct {
	Publications  []publicationResponse `json:"publications"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	TotalCount    int                   `json:"total_count"`
}

type approveResponse struct {
	Publication     publicationResponse `json:"publication"`
	ResolvedCount   int                 `json:"resolved_count"`
	UnresolvedNames []string            `json:"unresolved_names,omitempty"`
}

type deletePendingResponse struct {
	Deleted int64 `json:"deleted"`
}

type memberResponse struct {
	ID     string `json:"id"`
	NameEN string `json:"name_en"`
	NameZH string `json:"name_zh,omitempty"`
}

type listMembersResponse struct {
	Members []memberResponse `json:"members"`
}

type listFilesResponse struct {
	Files []string `json:"files"`
}

// Converter functions

func domainPublicationToResponse(p *domain.Publication) publicationResponse {
	return publicationResponse{
		ID:                p.ID.String(),
		Title:             p.Title,
		Year:              p.Year,
		Venue:             p.Venue,
		Type:              string(p.Type),
		AuthorsFullString: p.AuthorsFullString,
		RawAuthors:        p.RawAuthors,
		DOIURL:            p.DOIURL,
		PDFURL:            p.PDFURL,
		Abstract:          p.Abstract,
		Keywords:          p.Keywords,
		Volume:            p.Volume,
		Number:            p.Number,
		Pages:             p.Pages,
		Publisher:         p.Publisher,
		Status:            string(p.Status),
		Source:            string(p.Source),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func domainAuthorLinksToResponse(links []domain.PublicationAuthor) []authorLinkResponse {
	if len(links) == 0 {
		return nil
	}
	out := make([]authorLinkResponse, len(links))
	for i, l := range links {
		out[i] = authorLinkResponse{
			MemberID:        l.MemberID,
			AuthorOrder:     l.AuthorOrder,
			IsCorresponding: l.IsCorresponding,
		}
	}
	return out
}

func domainMemberToResponse(m domain.Member) memberResponse {
	return memberResponse{
		ID:     m.ID,
		NameEN: m.NameEN,
		NameZH: m.NameZH,
	}
}

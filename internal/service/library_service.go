package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LibraryService 查询公版教材：Open Library 和 Project Gutenberg。
// 两个接口都取前三条结果，拼成带下载链接的文本。
type LibraryService struct {
	client *http.Client

	// 可在测试中替换
	openLibraryBaseURL string
	gutendexBaseURL    string
}

func NewLibraryService() *LibraryService {
	return &LibraryService{
		client:             &http.Client{Timeout: 15 * time.Second},
		openLibraryBaseURL: "https://openlibrary.org",
		gutendexBaseURL:    "https://gutendex.com",
	}
}

func (s *LibraryService) OpenLibraryTextbooks(query string) (string, error) {
	params := url.Values{}
	params.Set("title", query)
	params.Set("has_fulltext", "true")

	resp, err := s.client.Get(s.openLibraryBaseURL + "/search.json?" + params.Encode())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Docs []struct {
			Title      string   `json:"title"`
			AuthorName []string `json:"author_name"`
			Key        string   `json:"key"`
			EditionKey []string `json:"edition_key"`
		} `json:"docs"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	books := payload.Docs
	if len(books) > 3 {
		books = books[:3]
	}
	if len(books) == 0 {
		return "No textbooks found for your query.", nil
	}

	var b strings.Builder
	b.WriteString("Here are some textbooks you might find useful:\n")
	for _, book := range books {
		author := "Unknown Author"
		if len(book.AuthorName) > 0 {
			author = strings.Join(book.AuthorName, ", ")
		}

		// 优先找 PDF 或 Internet Archive 全文，找不到退回作品页
		link := s.openLibraryBaseURL + book.Key
		linkText := "Read online"
		if len(book.EditionKey) > 0 {
			if pdf := s.editionPDFLink(book.EditionKey[0]); pdf != "" {
				link = pdf
				linkText = "Download PDF"
			}
		}

		fmt.Fprintf(&b, "- %s by %s\n  %s: %s\n", book.Title, author, linkText, link)
	}
	return b.String(), nil
}

// editionPDFLink 查询版次详情，按 formats.pdf、ocaid 的顺序找全文链接
func (s *LibraryService) editionPDFLink(editionKey string) string {
	resp, err := s.client.Get(fmt.Sprintf("%s/books/%s.json", s.openLibraryBaseURL, editionKey))
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	var edition struct {
		Formats map[string]struct {
			URL string `json:"url"`
		} `json:"formats"`
		OCAID string `json:"ocaid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&edition); err != nil {
		return ""
	}

	if pdf, ok := edition.Formats["pdf"]; ok && pdf.URL != "" {
		return pdf.URL
	}
	if edition.OCAID != "" {
		return fmt.Sprintf("https://archive.org/download/%s/%s.pdf", edition.OCAID, edition.OCAID)
	}
	return ""
}

func (s *LibraryService) GutendexTextbooks(query string) (string, error) {
	resp, err := s.client.Get(s.gutendexBaseURL + "/books?search=" + url.QueryEscape(query))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Title   string `json:"title"`
			Authors []struct {
				Name string `json:"name"`
			} `json:"authors"`
			Formats map[string]string `json:"formats"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}

	books := payload.Results
	if len(books) > 3 {
		books = books[:3]
	}
	if len(books) == 0 {
		return "No textbooks found for your query.", nil
	}

	var b strings.Builder
	b.WriteString("Here are some textbooks you might find useful:\n")
	for _, book := range books {
		author := "Unknown Author"
		if len(book.Authors) > 0 {
			names := make([]string, 0, len(book.Authors))
			for _, a := range book.Authors {
				names = append(names, a.Name)
			}
			author = strings.Join(names, ", ")
		}

		fmt.Fprintf(&b, "- %s by %s\n", book.Title, author)
		if link := book.Formats["application/pdf"]; link != "" {
			fmt.Fprintf(&b, "  Download PDF: %s\n", link)
		}
		if link := book.Formats["application/epub+zip"]; link != "" {
			fmt.Fprintf(&b, "  Download EPUB: %s\n", link)
		}
		if link := book.Formats["text/plain; charset=utf-8"]; link != "" {
			fmt.Fprintf(&b, "  Download TXT: %s\n", link)
		}
	}
	return b.String(), nil
}

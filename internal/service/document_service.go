package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"study_buddy_backend/internal/model"
	"study_buddy_backend/pkg/logger"

	"github.com/fumiama/go-docx"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported format, please choose 'pdf' or 'docx'")

// documentStore 生成记录的持久化操作
type documentStore interface {
	Create(doc *model.GeneratedDocument) error
	FindByFilename(filename string) (*model.GeneratedDocument, error)
	FindOlderThan(cutoff time.Time) ([]model.GeneratedDocument, error)
	Delete(doc *model.GeneratedDocument) error
}

// DocumentService 把生成内容渲染成 PDF/DOCX 并交给存储后端。
// 内容按行处理：`# ` 一级标题、`## ` 二级标题、`- ` 列表项，其余为正文。
type DocumentService struct {
	Docs    documentStore
	Storage StorageProvider
	MaxAge  time.Duration
}

func NewDocumentService(docs documentStore, storage *StorageService, maxAge time.Duration) *DocumentService {
	return &DocumentService{
		Docs:    docs,
		Storage: storage.Provider,
		MaxAge:  maxAge,
	}
}

// Generate 渲染文档并返回下载地址
func (s *DocumentService) Generate(ctx context.Context, content, format string, userID uint) (string, error) {
	var (
		buf         *bytes.Buffer
		contentType string
		err         error
	)

	switch format {
	case "pdf":
		buf, err = renderPDF(content)
		contentType = "application/pdf"
	case "docx":
		buf, err = renderDOCX(content)
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s.%s", uuid.New().String(), format)

	downloadURL, err := s.Storage.Upload(ctx, filename, buf, int64(buf.Len()), contentType)
	if err != nil {
		return "", err
	}

	if err := s.Docs.Create(&model.GeneratedDocument{
		Filename: filename,
		Format:   format,
		UserID:   userID,
	}); err != nil {
		return "", err
	}

	return downloadURL, nil
}

// Open 返回已生成文档的内容流和 MIME 类型
func (s *DocumentService) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	doc, err := s.Docs.FindByFilename(filename)
	if err != nil {
		return nil, "", err
	}

	contentType := "application/pdf"
	if doc.Format == "docx" {
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	reader, err := s.Storage.Open(ctx, doc.Filename)
	if err != nil {
		return nil, "", err
	}
	return reader, contentType, nil
}

// CleanupExpired 删除超过保留时长的产物，文件和记录一起清
func (s *DocumentService) CleanupExpired(ctx context.Context) error {
	expired, err := s.Docs.FindOlderThan(time.Now().Add(-s.MaxAge))
	if err != nil {
		return err
	}

	for _, doc := range expired {
		if err := s.Storage.Delete(ctx, doc.Filename); err != nil {
			logger.Log.Warn("Failed to delete expired document file", zap.String("filename", doc.Filename), zap.Error(err))
		}
		if err := s.Docs.Delete(&doc); err != nil {
			return err
		}
	}

	if len(expired) > 0 {
		logger.Log.Info("Cleaned up expired documents", zap.Int("count", len(expired)))
	}
	return nil
}

func renderPDF(content string) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			pdf.SetFont("Arial", "B", 14)
			pdf.MultiCell(0, 7, tr(strings.TrimPrefix(line, "## ")), "", "L", false)
		case strings.HasPrefix(line, "# "):
			pdf.SetFont("Arial", "B", 18)
			pdf.MultiCell(0, 9, tr(strings.TrimPrefix(line, "# ")), "", "L", false)
		case strings.HasPrefix(line, "- "):
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, tr("- "+strings.TrimPrefix(line, "- ")), "", "L", false)
		default:
			pdf.SetFont("Arial", "", 11)
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func renderDOCX(content string) (*bytes.Buffer, error) {
	w := docx.New().WithDefaultTheme()

	for _, line := range strings.Split(content, "\n") {
		para := w.AddParagraph()
		switch {
		case strings.HasPrefix(line, "## "):
			para.AddText(strings.TrimPrefix(line, "## ")).Size("28")
		case strings.HasPrefix(line, "# "):
			para.AddText(strings.TrimPrefix(line, "# ")).Size("36")
		case strings.HasPrefix(line, "- "):
			para.AddText("• " + strings.TrimPrefix(line, "- "))
		default:
			para.AddText(line)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

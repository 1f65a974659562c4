// internal/services/product_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/merchkit/catalog-admin/internal/models"
	"github.com/merchkit/catalog-admin/internal/store"
	"github.com/merchkit/catalog-admin/internal/utils"
)

// Phase is the submission workflow's explicit tagged state. The machine is
// linear with no branching back: Idle -> Validating -> Uploading ->
// Committing -> Idle; every failure returns to Idle with the form intact.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseUploading  Phase = "uploading"
	PhaseCommitting Phase = "committing"
)

// ValidationError names the first missing or malformed field of a
// submission attempt. Only one is ever surfaced per attempt.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UploadError wraps a storage failure during the upload fan-out. The
// submission fails whole; already-uploaded sibling files are not cleaned up.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload failed: %v", e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// StagedFile is an image selected for a submission but not yet uploaded.
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Staging owns one submission's staged-file batch. Acceptance is strict: a
// batch containing any file outside the image allow-set is rejected whole,
// with one combined message naming the offending MIME types.
type Staging struct {
	files    []StagedFile
	notifier *NotificationService
}

func NewStaging(notifier *NotificationService) *Staging {
	return &Staging{notifier: notifier}
}

func (st *Staging) Add(batch []StagedFile) error {
	var invalidTypes []string
	for _, f := range batch {
		if !IsAllowedImageType(f.ContentType) {
			invalidTypes = append(invalidTypes, f.ContentType)
		}
	}

	if len(invalidTypes) > 0 {
		message := fmt.Sprintf("Invalid file type(s): %s. Please upload only images.",
			strings.Join(invalidTypes, ", "))
		st.notifier.Error(message)
		return &ValidationError{Field: "images", Message: message}
	}

	st.files = append(st.files, batch...)
	return nil
}

// Remove splices one staged image out by index, preserving the order of the
// rest. Pure local-state edit with an immediate confirmation.
func (st *Staging) Remove(index int) error {
	if index < 0 || index >= len(st.files) {
		return fmt.Errorf("no staged image at index %d", index)
	}

	st.files = append(st.files[:index], st.files[index+1:]...)
	st.notifier.Success("Image removed successfully!")
	return nil
}

func (st *Staging) Files() []StagedFile {
	out := make([]StagedFile, len(st.files))
	copy(out, st.files)
	return out
}

func (st *Staging) Len() int { return len(st.files) }

func (st *Staging) Reset() { st.files = nil }

// CreateProductForm carries the creation form's draft fields. Numeric
// fields stay text until validation, matching the form inputs they mirror.
type CreateProductForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	RatingRate  string `form:"rating_rate"`
	RatingCount string `form:"rating_count"`
	Category    string `form:"category"`
	Inventory   string `form:"inventory"`
	Type        string `form:"type"`
	Vendor      string `form:"vendor"`
	Price       string `form:"price"`
	Status      string `form:"status"`
}

// Submission is one pass through the creation workflow.
type Submission struct {
	Form    CreateProductForm
	Staging *Staging
	phase   Phase
}

func NewSubmission(form CreateProductForm, staging *Staging) *Submission {
	return &Submission{Form: form, Staging: staging, phase: PhaseIdle}
}

func (s *Submission) Phase() Phase { return s.phase }

// submissionInput exists only for validation: field order is the mandated
// check order, and validator reports failures in declaration order, so the
// first error is always the first missing field.
type submissionInput struct {
	Title       string       `validate:"required"`
	Description string       `validate:"required"`
	Images      []StagedFile `validate:"required,min=1"`
	RatingRate  string       `validate:"required"`
	RatingCount string       `validate:"required"`
	Category    string       `validate:"required"`
	Inventory   string       `validate:"required"`
	Type        string       `validate:"required"`
	Vendor      string       `validate:"required"`
	Price       string       `validate:"required"`
}

var submissionMessages = map[string]string{
	"title":       "Please enter a product title",
	"description": "Please enter a product description",
	"images":      "Please upload at least one image",
	"ratingrate":  "Please enter a rating rate",
	"ratingcount": "Please enter a rating count",
	"category":    "Please select a category",
	"inventory":   "Please select an inventory",
	"type":        "Please select a type",
	"vendor":      "Please select a vendor",
	"price":       "Please enter a product price",
}

type parsedFields struct {
	price float64
	rate  float64
	count int
}

type ProductService struct {
	store        *store.Store
	uploader     ObjectUploader
	notifier     *NotificationService
	events       *EventService // nil when kafka is not configured
	db           *gorm.DB      // nil when the journal database is not configured
	uploadFolder string
}

func NewProductService(st *store.Store, uploader ObjectUploader, notifier *NotificationService, events *EventService, db *gorm.DB, uploadFolder string) *ProductService {
	return &ProductService{
		store:        st,
		uploader:     uploader,
		notifier:     notifier,
		events:       events,
		db:           db,
		uploadFolder: uploadFolder,
	}
}

// Submit runs one submission through the workflow. On success the new
// product is in the shared collection, the facet index is recomputed, the
// form and staging are reset, and a success notification is surfaced. On
// failure nothing is mutated and the entered values stay intact.
func (s *ProductService) Submit(ctx context.Context, sub *Submission) (models.Product, error) {
	sub.phase = PhaseValidating
	parsed, err := validateSubmission(sub.Form, sub.Staging.Files())
	if err != nil {
		sub.phase = PhaseIdle
		s.notifier.Error(err.Message)
		return models.Product{}, err
	}

	sub.phase = PhaseUploading
	urls, uploadErr := s.uploadAll(ctx, sub.Staging.Files())
	if uploadErr != nil {
		sub.phase = PhaseIdle
		s.notifier.Error("Error adding product. Please try again.")
		return models.Product{}, &UploadError{Err: uploadErr}
	}

	sub.phase = PhaseCommitting
	product := s.commit(sub.Form, parsed, urls)

	sub.Form = CreateProductForm{Status: "active"}
	sub.Staging.Reset()
	sub.phase = PhaseIdle

	s.notifier.Success("Product added successfully!")
	return product, nil
}

// validateSubmission enforces the fixed check order and short-circuits at
// the first failure. Presence checks run first, numeric parses after.
func validateSubmission(form CreateProductForm, files []StagedFile) (parsedFields, *ValidationError) {
	input := submissionInput{
		Title:       form.Title,
		Description: form.Description,
		Images:      files,
		RatingRate:  form.RatingRate,
		RatingCount: form.RatingCount,
		Category:    form.Category,
		Inventory:   form.Inventory,
		Type:        form.Type,
		Vendor:      form.Vendor,
		Price:       form.Price,
	}

	if err := utils.ValidateStruct(&input); err != nil {
		if field, ok := utils.FirstFieldError(err); ok {
			return parsedFields{}, &ValidationError{Field: field, Message: submissionMessages[field]}
		}
		return parsedFields{}, &ValidationError{Field: "form", Message: "Invalid form submission"}
	}

	var parsed parsedFields
	var parseErr error

	if parsed.rate, parseErr = strconv.ParseFloat(form.RatingRate, 64); parseErr != nil {
		return parsedFields{}, &ValidationError{Field: "ratingrate", Message: "Please enter a valid rating rate"}
	}
	if parsed.count, parseErr = strconv.Atoi(form.RatingCount); parseErr != nil {
		return parsedFields{}, &ValidationError{Field: "ratingcount", Message: "Please enter a valid rating count"}
	}
	if parsed.price, parseErr = strconv.ParseFloat(form.Price, 64); parseErr != nil {
		return parsedFields{}, &ValidationError{Field: "price", Message: "Please enter a valid product price"}
	}

	return parsed, nil
}

// uploadAll fans every staged file out concurrently and collects resolved
// URLs positionally, so URL order always equals staging order regardless of
// completion order. Any single failure fails the batch.
func (s *ProductService) uploadAll(ctx context.Context, files []StagedFile) ([]string, error) {
	batch := time.Now().UnixMilli()
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	wg.Add(len(files))
	for i, f := range files {
		go func(index int, file StagedFile) {
			defer wg.Done()
			key := ObjectKey(s.uploadFolder, batch, index, file.Name)
			url, err := s.uploader.Upload(ctx, key, file.Data, file.ContentType)
			if err != nil {
				errs[index] = fmt.Errorf("image %d (%s): %w", index, file.Name, err)
				return
			}
			urls[index] = url
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}

func (s *ProductService) commit(form CreateProductForm, parsed parsedFields, urls []string) models.Product {
	product := models.Product{
		ID:          time.Now().UnixMilli(),
		Title:       form.Title,
		Price:       parsed.price,
		Description: utils.SanitizeDescription(form.Description),
		Category:    form.Category,
		Images:      models.ImageList(urls),
		Inventory:   models.Inventory(form.Inventory),
		Type:        form.Type,
		Vendor:      form.Vendor,
		Status:      models.NormalizeStatus(form.Status),
		Rating:      models.Rating{Rate: parsed.rate, Count: parsed.count},
	}

	stored := s.store.AddProduct(product)

	if s.db != nil {
		go s.journal(stored)
	}
	if s.events != nil {
		go s.publishCreated(stored)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": stored.ID,
		"title":      stored.Title,
		"images":     len(stored.Images),
	}).Info("Product committed to catalog")

	return stored
}

func (s *ProductService) journal(p models.Product) {
	entry := &models.CatalogEntry{
		ProductID:   p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Inventory:   p.Inventory.String(),
		Type:        p.Type,
		Vendor:      p.Vendor,
		Status:      p.Status,
		Images:      []string(p.Images),
		Rating: models.JSONB{
			"rate":  p.Rating.Rate,
			"count": p.Rating.Count,
		},
	}

	if err := s.db.Create(entry).Error; err != nil {
		logrus.WithError(err).Error("Failed to journal committed product")
	}
}

func (s *ProductService) publishCreated(p models.Product) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.events.PublishProductCreated(ctx, p); err != nil {
		logrus.WithError(err).Error("Failed to publish product.created event")
	}
}

package handling

import (
	"errors"
	"fmt"
	"frietkot_server/lib"
	"frietkot_server/services"
	"frietkot_server/structs"
	"frietkot_server/structs/tables"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

const multipartMemory = 8 << 20

var itemFieldPattern = regexp.MustCompile(`^items\[(\d+)\]\[(\w+)\]$`)

// ParseID reads a positive integer URL parameter.
func ParseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, lib.Invalid("Invalid id.")
	}
	return id, nil
}

// parseForm accepts both urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return lib.Invalid("The submitted form could not be read.")
	}
	return nil
}

// ParseCategoryName reads the name field of a category form.
func ParseCategoryName(r *http.Request) (string, error) {
	if err := parseForm(r); err != nil {
		return "", err
	}
	return r.FormValue("name"), nil
}

// ParseProductForm reads a product form including an optional "image" upload.
// validateImage runs before the upload is handed to any service.
func ParseProductForm(r *http.Request, maxImageBytes int64, validateImage func(data []byte, filename string) error) (*services.ProductInput, error) {
	if err := parseForm(r); err != nil {
		return nil, err
	}

	price, err := lib.ParseAmount(r.FormValue("price"))
	if err != nil {
		return nil, lib.Invalid("Price must be a valid amount.")
	}

	categoryID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("categoryId")), 10, 64)
	if err != nil || categoryID <= 0 {
		return nil, lib.Invalid("Please select a valid category.")
	}

	options, err := structs.ParseProductOptions(r.FormValue("options"))
	if err != nil {
		return nil, lib.Invalid("Options must be a valid JSON object or array.")
	}

	input := &services.ProductInput{
		Name:        r.FormValue("name"),
		Price:       price,
		Description: r.FormValue("description"),
		CategoryID:  categoryID,
		Options:     options,
		RemoveImage: r.FormValue("removeImage") == "true",
	}

	image, err := readImage(r, maxImageBytes)
	if err != nil {
		return nil, err
	}
	if image != nil {
		if err := validateImage(image.Data, image.Filename); err != nil {
			return nil, err
		}
		input.Image = image
	}

	return input, nil
}

func readImage(r *http.Request, maxBytes int64) (*services.UploadedImage, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, lib.Invalid("The uploaded image could not be read.")
	}
	defer file.Close()

	reader := io.Reader(file)
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}
	if len(data) == 0 && header.Filename == "" {
		return nil, nil
	}

	return &services.UploadedImage{Filename: header.Filename, Data: data}, nil
}

// ParseOrderForm reads the manual order form with items[i][field] line fields.
func ParseOrderForm(r *http.Request) (services.OrderHeader, []services.RawLineItem, error) {
	if err := parseForm(r); err != nil {
		return services.OrderHeader{}, nil, err
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if status == "" {
		return services.OrderHeader{}, nil, lib.Invalid("Order status is required.")
	}

	header := services.OrderHeader{
		Status:       tables.OrderStatus(status),
		CustomerName: r.FormValue("customerName"),
		Notes:        r.FormValue("notes"),
	}
	if raw := strings.TrimSpace(r.FormValue("totalPrice")); raw != "" {
		if total, err := lib.ParseAmount(raw); err == nil {
			header.TotalPrice = &total
		}
	}

	lines := make(map[int]*services.RawLineItem)
	for key, values := range r.Form {
		m := itemFieldPattern.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		line, ok := lines[index]
		if !ok {
			line = &services.RawLineItem{}
			lines[index] = line
		}
		switch m[2] {
		case "productId":
			line.ProductID = values[0]
		case "productName":
			line.ProductName = values[0]
		case "quantity":
			line.Quantity = values[0]
		case "unitPrice":
			line.UnitPrice = values[0]
		}
	}

	indexes := make([]int, 0, len(lines))
	for index := range lines {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	items := make([]services.RawLineItem, 0, len(indexes))
	for _, index := range indexes {
		line := lines[index]
		// Unused rows of the form only carry the default quantity.
		if isBlank(line.ProductID) && isBlank(line.ProductName) && isBlank(line.UnitPrice) {
			continue
		}
		items = append(items, *line)
	}

	return header, items, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

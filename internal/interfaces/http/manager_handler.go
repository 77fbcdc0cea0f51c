package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/rentals-web/internal/application/dto"
)

// maxPhotoBytes tamaño máximo de cada foto recibida.
const maxPhotoBytes = 10 << 20

// ManagerHandler propiedades del manager.
type ManagerHandler struct{}

// NewManagerHandler construye el handler.
func NewManagerHandler() *ManagerHandler {
	return &ManagerHandler{}
}

// Properties godoc
// @Summary      Mis propiedades
// @Tags         managers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ManagerPropertiesView
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/managers/properties [get]
func (h *ManagerHandler) Properties(c *fiber.Ctx) error {
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Managers.Properties(c.UserContext(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateProperty godoc
// @Summary      Publicar propiedad
// @Tags         managers
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        name           formData  string  true   "Nombre"
// @Param        pricePerMonth  formData  number  true   "Arriendo mensual"
// @Param        photos         formData  file    false  "Fotos"
// @Success      201  {object}  entity.Property
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/managers/properties [post]
func (h *ManagerHandler) CreateProperty(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "INVALID_BODY", "se espera multipart/form-data")
	}
	in, err := parseCreateProperty(form)
	if err != nil {
		return badRequest(c, "INVALID_BODY", err.Error())
	}
	scope := GetScope(c)
	user, err := scope.Users.Me(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := scope.Managers.CreateProperty(c.UserContext(), user, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// parseCreateProperty arma la petición a partir del formulario del navegador.
func parseCreateProperty(form *multipart.Form) (dto.CreatePropertyRequest, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	var in dto.CreatePropertyRequest
	in.Name = value("name")
	in.Description = value("description")
	in.PropertyType = value("propertyType")
	in.Address = value("address")
	in.City = value("city")
	in.State = value("state")
	in.Country = value("country")
	in.PostalCode = value("postalCode")
	in.Amenities = form.Value["amenities"]
	in.Highlights = form.Value["highlights"]

	var err error
	for key, dst := range map[string]*decimal.Decimal{
		"pricePerMonth":   &in.PricePerMonth,
		"securityDeposit": &in.SecurityDeposit,
		"applicationFee":  &in.ApplicationFee,
	} {
		if raw := value(key); raw != "" {
			if *dst, err = decimal.NewFromString(raw); err != nil {
				return in, fmt.Errorf("%s: monto inválido", key)
			}
		}
	}
	for key, dst := range map[string]*int{"beds": &in.Beds, "squareFeet": &in.SquareFeet} {
		if raw := value(key); raw != "" {
			if *dst, err = strconv.Atoi(raw); err != nil {
				return in, fmt.Errorf("%s: entero inválido", key)
			}
		}
	}
	if raw := value("baths"); raw != "" {
		if in.Baths, err = strconv.ParseFloat(raw, 64); err != nil {
			return in, fmt.Errorf("baths: número inválido")
		}
	}
	for key, dst := range map[string]*bool{"isPetsAllowed": &in.IsPetsAllowed, "isParkingIncluded": &in.IsParkingIncluded} {
		if raw := value(key); raw != "" {
			if *dst, err = strconv.ParseBool(raw); err != nil {
				return in, fmt.Errorf("%s: booleano inválido", key)
			}
		}
	}

	for _, fh := range form.File["photos"] {
		if fh.Size > maxPhotoBytes {
			return in, fmt.Errorf("foto %s supera el tamaño máximo", fh.Filename)
		}
		content, err := readFile(fh)
		if err != nil {
			return in, err
		}
		in.Photos = append(in.Photos, dto.PhotoUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return in, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir foto %s: %w", fh.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

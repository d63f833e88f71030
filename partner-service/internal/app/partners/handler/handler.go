package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"
	"partnerhub/partner-service/internal/app/partners/importer"
	"partnerhub/partner-service/internal/app/partners/service"
)

// Handler выводит результаты операций ядра в терминал
// Заменяет экранные формы: список партнёров, форму, историю и калькулятор материалов
type Handler struct {
	partners   service.PartnerServiceInterface
	references service.ReferenceServiceInterface
	materials  service.MaterialCalculatorInterface
	out        io.Writer
	asJSON     bool
}

func NewHandler(
	partners service.PartnerServiceInterface,
	references service.ReferenceServiceInterface,
	materials service.MaterialCalculatorInterface,
	out io.Writer,
	asJSON bool,
) *Handler {
	return &Handler{
		partners:   partners,
		references: references,
		materials:  materials,
		out:        out,
		asJSON:     asJSON,
	}
}

// === PARTNERS ===

func (h *Handler) ListPartners(ctx context.Context) error {
	cards, err := h.partners.ListCards(ctx)
	if err != nil {
		return err
	}
	if h.asJSON {
		return h.json(cards)
	}

	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tТИП\tНАИМЕНОВАНИЕ\tДИРЕКТОР\tТЕЛЕФОН\tРЕЙТИНГ\tОБЪЁМ\tСКИДКА")
	for _, card := range cards {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d%%\n",
			card.ID, card.PartnerTypeName, card.Name,
			deref(card.Director), deref(card.Phone), rating(card.Rating),
			card.TotalQuantity, card.Discount)
	}
	return w.Flush()
}

func (h *Handler) SavePartner(ctx context.Context, req *entity.SavePartnerRequest) error {
	partner, err := h.partners.Save(ctx, req)
	if err != nil {
		var fieldErrs *apperror.FieldErrors
		if errors.As(err, &fieldErrs) {
			for field, msg := range fieldErrs.Fields {
				fmt.Fprintf(h.out, "%s: %s\n", field, msg)
			}
		}
		return err
	}
	if h.asJSON {
		return h.json(partner)
	}

	fmt.Fprintf(h.out, "Партнёр %q сохранён (id %d)\n", partner.Name, partner.ID)
	return nil
}

func (h *Handler) History(ctx context.Context, partnerID uint) error {
	history, err := h.partners.History(ctx, partnerID)
	if err != nil {
		return err
	}
	if h.asJSON {
		return h.json(history)
	}

	fmt.Fprintf(h.out, "%s %s\n", history.Partner.PartnerTypeName, history.Partner.Name)
	if len(history.Sales) == 0 {
		fmt.Fprintln(h.out, "Продаж нет")
		return nil
	}

	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ДАТА\tАРТИКУЛ\tПРОДУКЦИЯ\tКОЛИЧЕСТВО")
	for _, sale := range history.Sales {
		date := "-"
		if sale.SaleDate != nil {
			date = sale.SaleDate.Format("02.01.2006")
		}
		article := "-"
		if sale.ProductArticle != nil {
			article = fmt.Sprint(*sale.ProductArticle)
		}
		quantity := "-"
		if sale.Quantity != nil {
			quantity = fmt.Sprint(*sale.Quantity)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", date, article, sale.ProductName, quantity)
	}
	return w.Flush()
}

func (h *Handler) Discount(ctx context.Context, partnerID uint) error {
	discount, err := h.partners.Discount(ctx, partnerID)
	if err != nil {
		return err
	}
	if h.asJSON {
		return h.json(discount)
	}

	fmt.Fprintf(h.out, "Объём закупок: %d, скидка: %d%%\n", discount.TotalQuantity, discount.Discount)
	return nil
}

// === REFERENCES ===

func (h *Handler) References(ctx context.Context) error {
	partnerTypes, err := h.references.PartnerTypes(ctx)
	if err != nil {
		return err
	}
	productTypes, err := h.references.ProductTypes(ctx)
	if err != nil {
		return err
	}
	materialTypes, err := h.references.MaterialTypes(ctx)
	if err != nil {
		return err
	}

	if h.asJSON {
		return h.json(map[string]interface{}{
			"partner_types":  partnerTypes,
			"product_types":  productTypes,
			"material_types": materialTypes,
		})
	}

	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	for _, t := range partnerTypes {
		fmt.Fprintf(w, "partner_type\t%d\t%s\t\n", t.ID, t.Name)
	}
	for _, t := range productTypes {
		fmt.Fprintf(w, "product_type\t%d\t%s\t%s\n", t.ID, t.Name, t.Coefficient.String())
	}
	for _, t := range materialTypes {
		fmt.Fprintf(w, "material_type\t%d\t%s\t%s%%\n", t.ID, t.Name, t.DefectPercentage.String())
	}
	return w.Flush()
}

// === MATERIALS ===

// Material печатает потребность в материале. ErrComputation выводится
// сообщением и возвращается вызывающему для повторного ввода
func (h *Handler) Material(ctx context.Context, req entity.MaterialRequest) error {
	quantity, err := h.materials.MaterialQuantity(ctx, req.ProductTypeID, req.MaterialTypeID, req.Quantity, req.Param1, req.Param2)
	if err != nil {
		if errors.Is(err, apperror.ErrComputation) {
			fmt.Fprintf(h.out, "Невозможно рассчитать: %v\n", err)
		}
		return err
	}
	if h.asJSON {
		return h.json(map[string]int64{"material_quantity": quantity})
	}

	fmt.Fprintf(h.out, "Необходимо материала: %d\n", quantity)
	return nil
}

// === IMPORT ===

func (h *Handler) ImportReport(report *importer.Report) error {
	if report == nil {
		return nil
	}
	if h.asJSON {
		return h.json(report)
	}

	fmt.Fprintf(h.out, "Импорт %s\n", report.RunID)
	w := tabwriter.NewWriter(h.out, 0, 4, 2, ' ', 0)
	for _, stage := range report.Stages {
		fmt.Fprintf(w, "%s\t%d\tпропущено: %d\n", stage.Name, stage.Imported, len(stage.Skipped))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, skipped := range report.Skipped() {
		fmt.Fprintf(h.out, "Пропуск: %v\n", skipped)
	}
	return nil
}

func (h *Handler) json(v interface{}) error {
	encoder := json.NewEncoder(h.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func rating(r *int) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprint(*r)
}

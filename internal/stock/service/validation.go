package service

import (
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/dto"
	apperrors "stockroom/internal/errors"
)

// ValidateProductTransfer checks the fields every transfer carries.
func ValidateProductTransfer(req dto.ProductTransferRequest) error {
	var details []apperrors.ValidationDetail

	if req.SKU == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "sku",
			Message: "sku is required",
		})
	}

	if req.Quantity < 1 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be an integer greater than or equal to 1",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

// ValidateTransferType checks that req carries the store ids its type needs:
// OUT a source, IN a target, TRANSFER both and distinct.
func ValidateTransferType(t domain.MovementType, req dto.ProductTransferRequest) error {
	switch t {
	case domain.MovementOut:
		if req.SourceStoreID == "" {
			return missingStore(t, "sourceStoreId")
		}
	case domain.MovementIn:
		if req.TargetStoreID == "" {
			return missingStore(t, "targetStoreId")
		}
	case domain.MovementTransfer:
		var details []apperrors.ValidationDetail
		if req.SourceStoreID == "" {
			details = append(details, apperrors.ValidationDetail{Field: "sourceStoreId", Message: "sourceStoreId is required"})
		}
		if req.TargetStoreID == "" {
			details = append(details, apperrors.ValidationDetail{Field: "targetStoreId", Message: "targetStoreId is required"})
		}
		if len(details) > 0 {
			return apperrors.NewValidationError(fmt.Sprintf("source and target needed for '%s' transactions", t), details...)
		}
		if req.SourceStoreID == req.TargetStoreID {
			return apperrors.NewValidationError("source and target must differ", apperrors.ValidationDetail{
				Field:   "targetStoreId",
				Message: "targetStoreId must differ from sourceStoreId",
			})
		}
	default:
		return apperrors.NewValidationError("invalid transaction type", apperrors.ValidationDetail{
			Field:   "type",
			Message: fmt.Sprintf("type must be one of %s, %s, %s", domain.MovementIn, domain.MovementOut, domain.MovementTransfer),
		})
	}

	return nil
}

func missingStore(t domain.MovementType, field string) error {
	var side string
	if field == "sourceStoreId" {
		side = "source"
	} else {
		side = "target"
	}
	return apperrors.NewValidationError(
		fmt.Sprintf("%s needed for '%s' transactions", side, t),
		apperrors.ValidationDetail{Field: field, Message: field + " is required"},
	)
}

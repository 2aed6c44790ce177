package service

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizledger.com/internal/domain"
)

// listOrder 列表统一排序：最新创建在前
const listOrder = "created_at DESC, id DESC"

// likeEscaper 转义 LIKE 通配符，搜索词按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// searchScope 按列做大小写不敏感的子串匹配
func searchScope(column, term string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, pattern)
	}
}

// listPage counts the filtered rows and loads one page into dest.
func listPage(db *gorm.DB, m interface{}, q domain.ListQuery, column string, dest interface{}, preloads ...string) (int64, error) {
	base := searchScope(column, q.Search)(db.Model(m)).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return 0, err
	}

	tx := base
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	if err := tx.Order(listOrder).Offset(q.Offset()).Limit(q.Limit).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// exists 判断主键记录是否存在
func exists(db *gorm.DB, m interface{}, id uint) (bool, error) {
	var n int64
	if err := db.Model(m).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// referenced 判断是否仍被其他表引用
func referenced(db *gorm.DB, m interface{}, column string, id uint) (bool, error) {
	var n int64
	if err := db.Model(m).Where(column+" = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// dbError 把 gorm 翻译后的错误转换成业务错误
func dbError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(entity + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictError(entity + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NewInUseError(entity + " is referenced by other records")
	default:
		return err
	}
}

func parseRefID(n json.Number, field string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(n.String()), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewBadRequestError("Invalid " + field)
	}
	return uint(id), nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

func parseDate(s, field string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, domain.NewBadRequestError("Invalid " + field)
}

// numericColumn 对应 numeric(precision, scale) 列
type numericColumn struct {
	precision int32
	scale     int32
}

var (
	amountColumn   = numericColumn{precision: 14, scale: 2}
	quantityColumn = numericColumn{precision: 14, scale: 3}
)

// fits 整数位不超过 precision-scale，小数位不超过 scale
func (c numericColumn) fits(d decimal.Decimal) bool {
	limit := decimal.New(1, c.precision-c.scale)
	return d.Abs().LessThan(limit) && d.Equal(d.Truncate(c.scale))
}

func nonNegative(d *decimal.Decimal, field string, col numericColumn) (decimal.Decimal, error) {
	if d == nil || d.IsNegative() || !col.fits(*d) {
		return decimal.Zero, domain.NewBadRequestError("Invalid " + field)
	}
	return *d, nil
}

func positive(d *decimal.Decimal, field string, col numericColumn) (decimal.Decimal, error) {
	if d == nil || !d.IsPositive() || !col.fits(*d) {
		return decimal.Zero, domain.NewBadRequestError("Invalid " + field)
	}
	return *d, nil
}

func requireField(value, msg string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewBadRequestError(msg)
	}
	return nil
}

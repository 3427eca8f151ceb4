package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/Siam456/flowtrance-finance-backend/internal/service"
	"github.com/Siam456/flowtrance-finance-backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportExportHandler 负责流水导出
type ImportExportHandler struct {
	DB           *gorm.DB
	Transactions *service.TransactionService
}

func NewImportExportHandler(db *gorm.DB) *ImportExportHandler {
	return &ImportExportHandler{
		DB:           db,
		Transactions: service.NewTransactionService(db),
	}
}

var exportHeaders = []string{"类型", "类别", "金额", "账户", "备注", "日期", "引用号"}

func exportTypeText(txType string) string {
	switch txType {
	case "income":
		return "收入"
	case "transfer":
		return "转账"
	default:
		return "支出"
	}
}

// ExportCSV 导出流水为 CSV
func (h *ImportExportHandler) ExportCSV(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.Transactions.List(user.ID, service.ListTransactionsFilter{})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(exportHeaders)

	for _, r := range rows {
		writer.Write([]string{
			exportTypeText(r.Type),
			r.Category,
			r.Amount.StringFixed(2),
			r.AccountName,
			r.Description,
			r.Date.Format("2006-01-02"),
			r.Reference,
		})
	}
}

// ExportXLSX 导出流水为 XLSX
func (h *ImportExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	rows, err := h.Transactions.List(user.ID, service.ListTransactionsFilter{})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "查询失败")
		return
	}

	f := excelize.NewFile()
	sheetName := "流水明细"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "创建工作表失败")
		return
	}
	f.SetActiveSheet(index)

	for i, head := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, head)
	}

	for idx, r := range rows {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), exportTypeText(r.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), r.Reference)
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 15)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 38)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "导出失败")
	}
}

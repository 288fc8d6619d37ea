package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"social-media-bot/internal/model"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetSyncService 将每日汇总导出到Google Sheet，未配置时为nil，所有方法空操作
type SheetSyncService struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetSyncService(enableSync bool, credentialPath, spreadsheetID, sheetName string) (*SheetSyncService, error) {
	if !enableSync {
		return nil, nil
	}

	ctx := context.Background()

	// 读取凭证文件
	b, err := os.ReadFile(credentialPath)
	if err != nil {
		return nil, err
	}

	// 使用服务账号授权
	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("无法加载凭证: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, err
	}

	return &SheetSyncService{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// SyncDailyStat 同步一条每日汇总，已存在该日期则更新，否则追加
func (s *SheetSyncService) SyncDailyStat(stat *model.DailyStat) error {
	if s == nil {
		return nil
	}

	// 先检查Sheet中是否已存在该日期
	rangeToSearch := fmt.Sprintf("%s!A2:A", s.sheetName)
	dateResp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, rangeToSearch).Do()
	if err != nil {
		log.Printf("查询Sheet数据失败: %v", err)
		return fmt.Errorf("查询Sheet数据失败: %v", err)
	}

	var rowIndex int
	found := false
	for i, row := range dateResp.Values {
		if len(row) > 0 && row[0] == stat.Date {
			found = true
			rowIndex = i + 2 // +2因为A2开始且数组从0开始
			break
		}
	}

	values := [][]interface{}{statRow(stat)}

	// 根据是否找到决定更新还是追加
	if found {
		rangeData := fmt.Sprintf("%s!A%d:F%d", s.sheetName, rowIndex, rowIndex)
		_, err = s.service.Spreadsheets.Values.Update(
			s.spreadsheetID,
			rangeData,
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Do()
	} else {
		_, err = s.service.Spreadsheets.Values.Append(
			s.spreadsheetID,
			s.sheetName+"!A2:F",
			&sheets.ValueRange{Values: values},
		).ValueInputOption("USER_ENTERED").Do()
	}

	if err != nil {
		log.Printf("同步到Google Sheet失败: %v", err)
		return fmt.Errorf("同步到Google Sheet失败: %v", err)
	}

	log.Printf("成功同步 %s 的每日汇总到Google Sheet", stat.Date)
	return nil
}

// BatchSyncDailyStats 批量追加每日汇总
func (s *SheetSyncService) BatchSyncDailyStats(stats []model.DailyStat) error {
	if s == nil {
		return nil
	}

	var values [][]interface{}
	for i := range stats {
		values = append(values, statRow(&stats[i]))
	}

	_, err := s.service.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.sheetName+"!A2:F",
		&sheets.ValueRange{Values: values},
	).ValueInputOption("USER_ENTERED").Do()

	if err != nil {
		log.Printf("批量同步每日汇总失败: %v", err)
		return err
	}

	return nil
}

func statRow(stat *model.DailyStat) []interface{} {
	return []interface{}{
		stat.Date,
		strconv.FormatInt(stat.TotalUsers, 10),
		strconv.FormatInt(stat.TotalRequests, 10),
		strconv.FormatInt(stat.TotalDownloads, 10),
		strconv.FormatInt(stat.TotalCaptions, 10),
		fmt.Sprintf("%.4f", stat.TotalCost),
	}
}

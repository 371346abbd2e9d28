package handlers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"barber_pos/database"
	"barber_pos/models"
)

// periodStart 根据周期参数计算统计窗口的起始时间
// 支持 today（今天零点）、week（近7天）、month（本月1号零点）、all（全部历史），默认month
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		return now.AddDate(0, 0, -7)
	case "all":
		return time.Time{}
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

// startOfDay 返回当天零点
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// GetDashboard 获取经营仪表盘
// 按周期窗口统计，把店主（VIP通道）的销售和团队销售分开呈现：
// 店主销售计入营业额但不产生佣金，团队销售两者都计入
// 纯读取操作：数据缺失时各项汇总为0，不报错
func GetDashboard(c *fiber.Ctx) error {
	now := time.Now()
	start := periodStart(c.Query("period", "month"), now)

	db := database.GetDB()

	// 找出店主，用于划分VIP销售和团队销售
	var ownerIDs []uint
	if err := db.Model(&models.Collaborator{}).Where("is_owner = ?", true).
		Pluck("id", &ownerIDs).Error; err != nil {
		logrus.Errorf("查询店主失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询店主失败",
		})
	}

	// 周期内的全部销售
	var sales []models.Sale
	if err := db.Where("date >= ?", start).Find(&sales).Error; err != nil {
		logrus.Errorf("查询销售记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询销售记录失败",
		})
	}

	ownerSet := make(map[uint]bool, len(ownerIDs))
	for _, id := range ownerIDs {
		ownerSet[id] = true
	}

	// 划分VIP销售和团队销售
	// 店主的营业额绝不混入团队佣金池
	var totalRevenue, vipRevenue, teamRevenue, totalCommission float64
	var vipCount, teamCount int
	for _, s := range sales {
		totalRevenue += s.TotalAmount
		if ownerSet[s.CollaboratorID] {
			vipRevenue += s.TotalAmount
			vipCount++
		} else {
			teamRevenue += s.TotalAmount
			totalCommission += s.TotalCommission
			teamCount++
		}
	}

	// 周期内的支出总额
	var totalExpenses float64
	if err := db.Model(&models.Expense{}).
		Where("date >= ?", start).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpenses).Error; err != nil {
		logrus.Errorf("统计支出失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计支出失败",
		})
	}

	// 供应商欠款总额（不分周期，是当前负债）
	var supplierDebt float64
	if err := db.Model(&models.Supplier{}).
		Select("COALESCE(SUM(current_balance), 0)").
		Scan(&supplierDebt).Error; err != nil {
		logrus.Errorf("统计供应商欠款失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计供应商欠款失败",
		})
	}

	// 每个在职团队成员在周期内的表现（店主不进团队榜，零营业额的不显示）
	var collaborators []models.Collaborator
	if err := db.Where("active = ? AND is_owner = ?", true, false).Order("name ASC").
		Find(&collaborators).Error; err != nil {
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}

	perCollaborator := make([]fiber.Map, 0, len(collaborators))
	for _, co := range collaborators {
		var revenue, commission float64
		var count int
		for _, s := range sales {
			if s.CollaboratorID == co.ID {
				revenue += s.TotalAmount
				commission += s.TotalCommission
				count++
			}
		}
		if revenue == 0 {
			continue
		}
		perCollaborator = append(perCollaborator, fiber.Map{
			"collaborator_id": co.ID,
			"name":            co.Name,
			"sales_count":     count,
			"revenue":         revenue,
			"commission":      commission,
		})
	}

	// 近7天的营业额走势（含今天）
	dailySeries := make([]fiber.Map, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := startOfDay(now.AddDate(0, 0, -i))
		dayEnd := dayStart.AddDate(0, 0, 1)

		var revenue float64
		if err := db.Model(&models.Sale{}).
			Where("date >= ? AND date < ?", dayStart, dayEnd).
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&revenue).Error; err != nil {
			logrus.Errorf("统计每日营业额失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "统计每日营业额失败",
			})
		}

		dailySeries = append(dailySeries, fiber.Map{
			"date":    dayStart.Format("2006-01-02"),
			"revenue": revenue,
		})
	}

	// 按自然月汇总全部历史的损益表（月份倒序）
	monthlySeries, err := buildMonthlyProfitTable(db)
	if err != nil {
		logrus.Errorf("生成月度损益表失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "生成月度损益表失败",
		})
	}

	// 最近10笔销售
	var recentSales []models.Sale
	if err := db.Preload("Items").Order("date DESC").Limit(10).
		Find(&recentSales).Error; err != nil {
		logrus.Errorf("查询最近销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询最近销售失败",
		})
	}

	return c.JSON(fiber.Map{
		"period_start":     start.Format("2006-01-02"),
		"total_revenue":    totalRevenue,
		"vip_revenue":      vipRevenue,
		"team_revenue":     teamRevenue,
		"total_commission": totalCommission,
		"total_expenses":   totalExpenses,
		"net_profit":       totalRevenue - totalExpenses - totalCommission,
		"supplier_debt":    supplierDebt,
		"vip_sales_count":  vipCount,
		"team_sales_count": teamCount,
		"collaborators":    perCollaborator,
		"daily_series":     dailySeries,
		"monthly_series":   monthlySeries,
		"recent_sales":     recentSales,
	})
}

// buildMonthlyProfitTable 按自然月汇总历史销售和支出
// 返回按月份倒序的损益表
func buildMonthlyProfitTable(db *gorm.DB) ([]fiber.Map, error) {
	var allSales []models.Sale
	if err := db.Select("date", "total_amount").Find(&allSales).Error; err != nil {
		return nil, err
	}
	var allExpenses []models.Expense
	if err := db.Select("date", "amount").Find(&allExpenses).Error; err != nil {
		return nil, err
	}

	type monthlyEntry struct {
		revenue  float64
		expenses float64
	}
	monthly := make(map[string]*monthlyEntry)
	entryFor := func(d time.Time) *monthlyEntry {
		key := d.Format("2006-01")
		e, ok := monthly[key]
		if !ok {
			e = &monthlyEntry{}
			monthly[key] = e
		}
		return e
	}
	for _, s := range allSales {
		entryFor(s.Date).revenue += s.TotalAmount
	}
	for _, e := range allExpenses {
		entryFor(e.Date).expenses += e.Amount
	}

	months := make([]string, 0, len(monthly))
	for key := range monthly {
		months = append(months, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	table := make([]fiber.Map, 0, len(months))
	for _, key := range months {
		e := monthly[key]
		table = append(table, fiber.Map{
			"month":    key,
			"revenue":  e.revenue,
			"expenses": e.expenses,
			"profit":   e.revenue - e.expenses,
		})
	}
	return table, nil
}

// GetFinancialControl 获取当日财务对账面板
// 把今天的销售按支付方式分桶（含每个协作者的明细），
// 另附近7天现金（Dinheiro）收款的总额和按天明细，方便核对钱箱
func GetFinancialControl(c *fiber.Ctx) error {
	db := database.GetDB()
	now := time.Now()
	todayStart := startOfDay(now)

	// 今天的全部销售
	var sales []models.Sale
	if err := db.Where("date >= ?", todayStart).Find(&sales).Error; err != nil {
		logrus.Errorf("查询销售记录失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询销售记录失败",
		})
	}

	// 协作者姓名索引
	var collaborators []models.Collaborator
	if err := db.Find(&collaborators).Error; err != nil {
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}
	names := make(map[uint]string, len(collaborators))
	for _, co := range collaborators {
		names[co.ID] = co.Name
	}

	// 按支付方式分桶，桶内再按协作者细分
	type bucket struct {
		total           float64
		count           int
		perCollaborator map[uint]float64
	}
	buckets := make(map[string]*bucket)
	var todayTotal float64
	for _, s := range sales {
		method := s.PaymentMethod
		if method == "" {
			method = "Dinheiro"
		}
		b, ok := buckets[method]
		if !ok {
			b = &bucket{perCollaborator: make(map[uint]float64)}
			buckets[method] = b
		}
		b.total += s.TotalAmount
		b.count++
		b.perCollaborator[s.CollaboratorID] += s.TotalAmount
		todayTotal += s.TotalAmount
	}

	methods := make([]string, 0, len(buckets))
	for method := range buckets {
		methods = append(methods, method)
	}
	sort.Strings(methods)

	byMethod := make([]fiber.Map, 0, len(methods))
	for _, method := range methods {
		b := buckets[method]
		breakdown := make([]fiber.Map, 0, len(b.perCollaborator))
		for id, amount := range b.perCollaborator {
			breakdown = append(breakdown, fiber.Map{
				"collaborator_id": id,
				"name":            names[id],
				"amount":          amount,
			})
		}
		sort.Slice(breakdown, func(i, j int) bool {
			return breakdown[i]["name"].(string) < breakdown[j]["name"].(string)
		})
		byMethod = append(byMethod, fiber.Map{
			"payment_method": method,
			"total":          b.total,
			"count":          b.count,
			"collaborators":  breakdown,
		})
	}

	// 近7天的现金收款明细
	var cashTotal float64
	cashSeries := make([]fiber.Map, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := startOfDay(now.AddDate(0, 0, -i))
		dayEnd := dayStart.AddDate(0, 0, 1)

		var amount float64
		if err := db.Model(&models.Sale{}).
			Where("date >= ? AND date < ? AND payment_method = ?", dayStart, dayEnd, "Dinheiro").
			Select("COALESCE(SUM(total_amount), 0)").
			Scan(&amount).Error; err != nil {
			logrus.Errorf("统计现金收款失败: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "统计现金收款失败",
			})
		}

		cashTotal += amount
		cashSeries = append(cashSeries, fiber.Map{
			"date":   dayStart.Format("2006-01-02"),
			"amount": amount,
		})
	}

	return c.JSON(fiber.Map{
		"date":             todayStart.Format("2006-01-02"),
		"today_total":      todayTotal,
		"by_method":        byMethod,
		"week_cash_total":  cashTotal,
		"week_cash_series": cashSeries,
	})
}

// GetVIPSummary 获取店主（VIP通道）的销售汇总
// 只统计店主名下的销售：今天的营业额和笔数，外加最近的VIP销售记录
func GetVIPSummary(c *fiber.Ctx) error {
	db := database.GetDB()
	now := time.Now()

	var ownerIDs []uint
	if err := db.Model(&models.Collaborator{}).Where("is_owner = ?", true).
		Pluck("id", &ownerIDs).Error; err != nil {
		logrus.Errorf("查询店主失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询店主失败",
		})
	}

	if len(ownerIDs) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "未找到店主档案",
		})
	}

	// 今天的VIP营业额
	var todayRevenue float64
	if err := db.Model(&models.Sale{}).
		Where("collaborator_id IN ? AND date >= ?", ownerIDs, startOfDay(now)).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&todayRevenue).Error; err != nil {
		logrus.Errorf("统计VIP销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计VIP销售失败",
		})
	}

	var todayCount int64
	if err := db.Model(&models.Sale{}).
		Where("collaborator_id IN ? AND date >= ?", ownerIDs, startOfDay(now)).
		Count(&todayCount).Error; err != nil {
		logrus.Errorf("统计VIP销售笔数失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计VIP销售笔数失败",
		})
	}

	// 最近的VIP销售
	var recentSales []models.Sale
	if err := db.Preload("Items").
		Where("collaborator_id IN ?", ownerIDs).
		Order("date DESC").Limit(10).Find(&recentSales).Error; err != nil {
		logrus.Errorf("查询VIP销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询VIP销售失败",
		})
	}

	return c.JSON(fiber.Map{
		"today_revenue": todayRevenue,
		"today_count":   todayCount,
		"recent_sales":  recentSales,
	})
}

// GetMyDashboard 获取协作者自己的面板
// 返回历史佣金总额、当前未结清余额、已结算总额和最近的销售记录
func GetMyDashboard(c *fiber.Ctx) error {
	collaboratorID, ok := c.Locals("collaborator_id").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "未找到协作者身份信息",
		})
	}

	db := database.GetDB()

	var collaborator models.Collaborator
	if err := db.First(&collaborator, collaboratorID).Error; err != nil {
		logrus.Errorf("查询协作者失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询协作者失败",
		})
	}

	// 当前未结清余额
	balance, err := collaborator.Balance(db)
	if err != nil {
		logrus.Errorf("计算协作者余额失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "计算协作者余额失败",
		})
	}

	// 历史佣金总额（含已结算和未结算）
	var totalCommission float64
	if err := db.Model(&models.Sale{}).
		Where("collaborator_id = ?", collaborator.ID).
		Select("COALESCE(SUM(total_commission), 0)").
		Scan(&totalCommission).Error; err != nil {
		logrus.Errorf("统计历史佣金失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计历史佣金失败",
		})
	}

	// 已结算净额总计
	var totalPaid float64
	if err := db.Model(&models.PaymentRecord{}).
		Where("collaborator_id = ?", collaborator.ID).
		Select("COALESCE(SUM(net_amount), 0)").
		Scan(&totalPaid).Error; err != nil {
		logrus.Errorf("统计已结算总额失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计已结算总额失败",
		})
	}

	// 本月销售表现
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var monthRevenue, monthCommission float64
	var monthCount int64
	if err := db.Model(&models.Sale{}).
		Where("collaborator_id = ? AND date >= ?", collaborator.ID, monthStart).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&monthRevenue).Error; err != nil {
		logrus.Errorf("统计本月销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计本月销售失败",
		})
	}
	if err := db.Model(&models.Sale{}).
		Where("collaborator_id = ? AND date >= ?", collaborator.ID, monthStart).
		Select("COALESCE(SUM(total_commission), 0)").
		Scan(&monthCommission).Error; err != nil {
		logrus.Errorf("统计本月佣金失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计本月佣金失败",
		})
	}
	if err := db.Model(&models.Sale{}).
		Where("collaborator_id = ? AND date >= ?", collaborator.ID, monthStart).
		Count(&monthCount).Error; err != nil {
		logrus.Errorf("统计本月销售笔数失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "统计本月销售笔数失败",
		})
	}

	// 最近10笔销售
	var recentSales []models.Sale
	if err := db.Preload("Items").
		Where("collaborator_id = ?", collaborator.ID).
		Order("date DESC").Limit(10).Find(&recentSales).Error; err != nil {
		logrus.Errorf("查询最近销售失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询最近销售失败",
		})
	}

	return c.JSON(fiber.Map{
		"collaborator":     collaborator,
		"balance":          balance,
		"total_commission": totalCommission,
		"total_paid":       totalPaid,
		"month_revenue":    monthRevenue,
		"month_commission": monthCommission,
		"month_count":      monthCount,
		"recent_sales":     recentSales,
	})
}
